package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ServerPort != "8080" || cfg.StoreBackend != "memory" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AIProvider != "gemini" || cfg.AIModel != "gemini-2.5-flash" {
		t.Errorf("ai defaults: provider=%q model=%q", cfg.AIProvider, cfg.AIModel)
	}
	if cfg.AIMaxAttempts != 2 || cfg.AIBackoffBase != time.Second || cfg.AICallTimeout != time.Minute {
		t.Errorf("retry defaults: %d %v %v", cfg.AIMaxAttempts, cfg.AIBackoffBase, cfg.AICallTimeout)
	}
	if cfg.AIInitRetryAfter != 5*time.Minute {
		t.Errorf("init retry = %v", cfg.AIInitRetryAfter)
	}
	if cfg.JWTSecret != DevelopmentJWTSecret {
		t.Errorf("development secret not applied")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("cors origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("POSTGRES_URL", "postgres://localhost/tripmate")
	t.Setenv("POSTGRES_DRIVER", "postgres")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("AI_BACKOFF_BASE", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example,https://c.example")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.StoreBackend != "postgres" || cfg.PostgresDriver != "postgres" {
		t.Errorf("store = %q driver = %q", cfg.StoreBackend, cfg.PostgresDriver)
	}
	if cfg.AIModel != "gpt-4o-mini" || cfg.AIBackoffBase != 250*time.Millisecond {
		t.Errorf("ai = %q %v", cfg.AIModel, cfg.AIBackoffBase)
	}
	if len(cfg.CORSAllowedOrigins) != 3 {
		t.Errorf("cors origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret in production", map[string]string{"ENVIRONMENT": "production"}, "JWT_SECRET"},
		{"unknown store", map[string]string{"STORE_BACKEND": "sqlite"}, "STORE_BACKEND"},
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres"}, "POSTGRES_URL"},
		{"unknown provider", map[string]string{"AI_PROVIDER": "llama"}, "AI_PROVIDER"},
		{"zero attempts", map[string]string{"AI_MAX_ATTEMPTS": "0"}, "AI_MAX_ATTEMPTS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "development")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}
