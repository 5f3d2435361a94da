package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DevelopmentJWTSecret signs tokens when no secret is configured in
// development. It is rejected everywhere else.
const DevelopmentJWTSecret = "tripmate-development-secret"

type Config struct {
	// Server
	ServerPort  string `env:"PORT" envDefault:"8080"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production

	// Logging
	LoggerLevel      string `env:"LOG_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOG_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOG_OUTPUT_PATH" envDefault:"stdout"`

	// Document store: postgres, mongo or memory
	StoreBackend    string `env:"STORE_BACKEND" envDefault:"memory"`
	PostgresURL     string `env:"POSTGRES_URL"`
	PostgresDriver  string `env:"POSTGRES_DRIVER" envDefault:"pgx"` // pgx, postgres (lib/pq)
	PostgresMaxIdle int    `env:"POSTGRES_MAX_IDLE" envDefault:"10"`
	PostgresMaxOpen int    `env:"POSTGRES_MAX_OPEN" envDefault:"50"`
	MongoURI        string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"tripmate"`

	// Redis backs the weather cache when REDIS_ADDR is set.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"tripmate"`

	// JWT
	JWTSecret        string `env:"JWT_SECRET"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"60"`

	// Itinerary generation
	AIProvider        string        `env:"AI_PROVIDER" envDefault:"gemini"` // gemini, openai, none
	AIModel           string        `env:"AI_MODEL"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	AIMaxAttempts     int           `env:"AI_MAX_ATTEMPTS" envDefault:"2"`
	AIBackoffBase     time.Duration `env:"AI_BACKOFF_BASE" envDefault:"1s"`
	AICallTimeout     time.Duration `env:"AI_CALL_TIMEOUT" envDefault:"60s"`
	AIInitRetryAfter  time.Duration `env:"AI_INIT_RETRY_AFTER" envDefault:"5m"`
	AITemperature     float32       `env:"AI_TEMPERATURE" envDefault:"0.7"`
	AIMaxOutputTokens int32         `env:"AI_MAX_OUTPUT_TOKENS" envDefault:"8192"`

	// Weather (OpenWeatherMap)
	WeatherAPIKey   string        `env:"WEATHER_API_KEY"`
	WeatherBaseURL  string        `env:"WEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	WeatherGeoURL   string        `env:"WEATHER_GEO_URL" envDefault:"https://api.openweathermap.org/geo/1.0"`
	WeatherCacheTTL time.Duration `env:"WEATHER_CACHE_TTL" envDefault:"30m"`
	WeatherTimeout  time.Duration `env:"WEATHER_TIMEOUT" envDefault:"10s"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses and validates the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.PostgresDriver = strings.ToLower(strings.TrimSpace(c.PostgresDriver))
	c.AIProvider = strings.ToLower(strings.TrimSpace(c.AIProvider))
	if c.JWTSecret == "" && c.IsDevelopment() {
		c.JWTSecret = DevelopmentJWTSecret
	}
	if c.AIModel == "" {
		switch c.AIProvider {
		case "openai":
			c.AIModel = "gpt-4o-mini"
		default:
			c.AIModel = "gemini-2.5-flash"
		}
	}
}

func (c *Config) Validate() error {
	var problems []string
	switch c.StoreBackend {
	case "memory", "mongo":
	case "postgres":
		if c.PostgresURL == "" {
			problems = append(problems, "POSTGRES_URL is required when STORE_BACKEND=postgres")
		}
		if c.PostgresDriver != "pgx" && c.PostgresDriver != "postgres" {
			problems = append(problems, "POSTGRES_DRIVER must be pgx or postgres")
		}
	default:
		problems = append(problems, "STORE_BACKEND must be postgres, mongo or memory")
	}
	switch c.AIProvider {
	case "gemini", "openai", "none":
	default:
		problems = append(problems, "AI_PROVIDER must be gemini, openai or none")
	}
	if !c.IsDevelopment() && (c.JWTSecret == "" || c.JWTSecret == DevelopmentJWTSecret) {
		problems = append(problems, "JWT_SECRET is required outside development")
	}
	if c.AIMaxAttempts < 1 {
		problems = append(problems, "AI_MAX_ATTEMPTS must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// AIAPIKey returns the key for the configured provider.
func (c *Config) AIAPIKey() string {
	if c.AIProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpireMinutes) * time.Minute
}

func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
