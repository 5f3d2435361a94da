package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/config"
	"tripmate/internal/models/request_models"
	mem "tripmate/pkg/memcache"
	"tripmate/pkg/utils"
)

// ForecastHorizonDays is how far ahead the provider's forecast reaches.
const ForecastHorizonDays = 5

var (
	ErrWeatherDisabled  = errors.New("weather lookups not configured")
	ErrLocationNotFound = errors.New("location not found")
)

type WeatherServiceInterface interface {
	GetWeatherForTrip(ctx context.Context, destination string, start, end time.Time) (*request_models.WeatherSummary, error)
	Enabled() bool
}

// OpenWeatherClient talks to the OpenWeatherMap geocoding, current weather
// and 5 day / 3 hour forecast endpoints in metric units.
type OpenWeatherClient struct {
	HTTP     *http.Client
	APIKey   string
	BaseURL  string
	GeoURL   string
	Cache    mem.Cache
	CacheTTL time.Duration

	log *zap.Logger
	now func() time.Time
}

func NewWeatherService(cfg *config.Config, cache mem.Cache, log *zap.Logger) WeatherServiceInterface {
	return &OpenWeatherClient{
		HTTP:     &http.Client{Timeout: cfg.WeatherTimeout},
		APIKey:   cfg.WeatherAPIKey,
		BaseURL:  strings.TrimRight(cfg.WeatherBaseURL, "/"),
		GeoURL:   strings.TrimRight(cfg.WeatherGeoURL, "/"),
		Cache:    cache,
		CacheTTL: cfg.WeatherCacheTTL,
		log:      log.Named("weather"),
		now:      time.Now,
	}
}

func (c *OpenWeatherClient) Enabled() bool {
	return c.APIKey != ""
}

func (c *OpenWeatherClient) GetWeatherForTrip(ctx context.Context, destination string, start, end time.Time) (*request_models.WeatherSummary, error) {
	if !c.Enabled() {
		return nil, ErrWeatherDisabled
	}

	key := weatherCacheKey(destination, start, end)
	if summary, ok := c.cached(ctx, key); ok {
		return summary, nil
	}

	summary, err := c.fetch(ctx, destination, start, end)
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := c.Cache.Set(ctx, key, data, c.CacheTTL); err != nil {
				c.log.Warn("weather cache write failed", zap.Error(err))
			}
		}
	}
	return summary, nil
}

func weatherCacheKey(destination string, start, end time.Time) string {
	return fmt.Sprintf("weather:%s:%s:%s",
		strings.ToLower(strings.TrimSpace(destination)), utils.DateKey(start), utils.DateKey(end))
}

func (c *OpenWeatherClient) cached(ctx context.Context, key string) (*request_models.WeatherSummary, bool) {
	if c.Cache == nil {
		return nil, false
	}
	data, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("weather cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var summary request_models.WeatherSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

func (c *OpenWeatherClient) fetch(ctx context.Context, destination string, start, end time.Time) (*request_models.WeatherSummary, error) {
	loc, err := c.geocode(ctx, destination)
	if err != nil {
		return nil, err
	}

	summary := &request_models.WeatherSummary{Location: loc.label(destination)}

	if utils.DaysUntil(c.now(), start) > ForecastHorizonDays {
		current, err := c.current(ctx, loc)
		if err != nil {
			return nil, err
		}
		summary.Forecast = []request_models.DailyWeather{current}
		summary.Note = "Weather forecast is only available for the next 5 days. Current weather provided as reference."
		summary.Recommendations = WeatherRecommendationsFor(summary.Forecast)
		return summary, nil
	}

	days, err := c.forecast(ctx, loc)
	if err != nil {
		return nil, err
	}
	from, to := utils.DateKey(start), utils.DateKey(end)
	for _, d := range days {
		if d.Date >= from && d.Date <= to {
			summary.Forecast = append(summary.Forecast, d)
		}
	}
	if len(summary.Forecast) == 0 {
		current, err := c.current(ctx, loc)
		if err != nil {
			return nil, err
		}
		summary.Forecast = []request_models.DailyWeather{current}
		summary.Note = "No forecast covers the trip dates. Current weather provided as reference."
	}
	summary.Recommendations = WeatherRecommendationsFor(summary.Forecast)
	return summary, nil
}

type geoLocation struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

func (g geoLocation) label(fallback string) string {
	parts := []string{g.Name}
	if g.State != "" {
		parts = append(parts, g.State)
	}
	if g.Country != "" {
		parts = append(parts, g.Country)
	}
	if g.Name == "" {
		return fallback
	}
	return strings.Join(parts, ", ")
}

func (c *OpenWeatherClient) geocode(ctx context.Context, destination string) (geoLocation, error) {
	q := url.Values{}
	q.Set("q", destination)
	q.Set("limit", "1")

	var results []geoLocation
	if err := c.getJSON(ctx, c.GeoURL+"/direct", q, &results); err != nil {
		return geoLocation{}, fmt.Errorf("geocoding: %w", err)
	}
	if len(results) == 0 {
		return geoLocation{}, fmt.Errorf("%w: %s", ErrLocationNotFound, destination)
	}
	return results[0], nil
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []owmCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain map[string]float64 `json:"rain"`
	Snow map[string]float64 `json:"snow"`
}

func (s owmSample) condition() owmCondition {
	if len(s.Weather) == 0 {
		return owmCondition{Main: "Unknown"}
	}
	return s.Weather[0]
}

func (c *OpenWeatherClient) current(ctx context.Context, loc geoLocation) (request_models.DailyWeather, error) {
	var sample owmSample
	if err := c.getJSON(ctx, c.BaseURL+"/weather", coordQuery(loc), &sample); err != nil {
		return request_models.DailyWeather{}, fmt.Errorf("current weather: %w", err)
	}
	cond := sample.condition()
	temp := math.Round(sample.Main.Temp)
	return request_models.DailyWeather{
		Date:          utils.DateKey(c.now()),
		Temperature:   temp,
		MinTemp:       temp,
		MaxTemp:       temp,
		Condition:     cond.Main,
		Description:   cond.Description,
		Humidity:      sample.Main.Humidity,
		WindSpeed:     sample.Wind.Speed,
		Precipitation: round1(sample.Rain["1h"] + sample.Snow["1h"]),
	}, nil
}

func (c *OpenWeatherClient) forecast(ctx context.Context, loc geoLocation) ([]request_models.DailyWeather, error) {
	var payload struct {
		List []owmSample `json:"list"`
	}
	if err := c.getJSON(ctx, c.BaseURL+"/forecast", coordQuery(loc), &payload); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	return aggregateForecast(payload.List), nil
}

// aggregateForecast groups 3-hourly samples into one record per UTC date,
// in date order.
func aggregateForecast(samples []owmSample) []request_models.DailyWeather {
	type bucket struct {
		temps, humidity, wind []float64
		conditions            []owmCondition
		precipitation         float64
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, s := range samples {
		date := utils.DateKey(utils.FromUnixSecondsUTC(s.Dt))
		b, ok := buckets[date]
		if !ok {
			b = &bucket{}
			buckets[date] = b
			order = append(order, date)
		}
		b.temps = append(b.temps, s.Main.Temp)
		b.humidity = append(b.humidity, s.Main.Humidity)
		b.wind = append(b.wind, s.Wind.Speed)
		b.conditions = append(b.conditions, s.condition())
		b.precipitation += s.Rain["3h"] + s.Snow["3h"]
	}

	slices.Sort(order)
	days := make([]request_models.DailyWeather, 0, len(order))
	for _, date := range order {
		b := buckets[date]
		cond := mostCommonCondition(b.conditions)
		days = append(days, request_models.DailyWeather{
			Date:          date,
			Temperature:   math.Round(mean(b.temps)),
			MinTemp:       math.Round(slices.Min(b.temps)),
			MaxTemp:       math.Round(slices.Max(b.temps)),
			Condition:     cond.Main,
			Description:   cond.Description,
			Humidity:      math.Round(mean(b.humidity)),
			WindSpeed:     round1(mean(b.wind)),
			Precipitation: round1(b.precipitation),
		})
	}
	return days
}

// mostCommonCondition picks the most frequent main condition; ties go to
// the one seen first.
func mostCommonCondition(conds []owmCondition) owmCondition {
	counts := make(map[string]int)
	for _, c := range conds {
		counts[c.Main]++
	}
	best := conds[0]
	for _, c := range conds {
		if counts[c.Main] > counts[best.Main] {
			best = c
		}
	}
	return best
}

// WeatherRecommendationsFor derives packing and activity advice from the
// daily records.
func WeatherRecommendationsFor(days []request_models.DailyWeather) request_models.WeatherRecommendations {
	rec := request_models.WeatherRecommendations{
		Clothing:    []string{},
		Accessories: []string{},
		Activities:  []string{},
		General:     []string{},
	}
	if len(days) == 0 {
		return rec
	}

	maxTemp, minTemp := math.Inf(-1), math.Inf(1)
	maxWind := 0.0
	conditions := make(map[string]bool)
	for _, d := range days {
		maxTemp = math.Max(maxTemp, d.Temperature)
		minTemp = math.Min(minTemp, d.Temperature)
		maxWind = math.Max(maxWind, d.WindSpeed)
		conditions[d.Condition] = true
	}

	switch {
	case maxTemp > 30:
		rec.Clothing = append(rec.Clothing,
			"Light, breathable clothing (cotton/linen)", "Shorts and t-shirts", "Sun hat and sunglasses")
		rec.Accessories = append(rec.Accessories, "High SPF sunscreen")
		rec.General = append(rec.General, "Stay hydrated - carry water bottle")
	case maxTemp > 20:
		rec.Clothing = append(rec.Clothing, "Light layers - t-shirts and light jacket", "Comfortable pants or jeans")
		if minTemp < 15 {
			rec.Clothing = append(rec.Clothing, "Warm sweater for cool evenings")
		} else {
			rec.Clothing = append(rec.Clothing, "Light sweater for evenings")
		}
	case maxTemp > 10:
		rec.Clothing = append(rec.Clothing,
			"Warm layers - sweaters and jackets", "Long pants and closed shoes", "Light coat or jacket")
	case maxTemp > 0:
		rec.Clothing = append(rec.Clothing,
			"Heavy winter clothing", "Warm coat, gloves, and scarf", "Insulated boots")
		rec.Accessories = append(rec.Accessories, "Thermal underwear")
	default:
		rec.Clothing = append(rec.Clothing,
			"Arctic-level winter gear", "Heavy winter coat and thermal layers", "Winter boots with good grip")
		rec.Accessories = append(rec.Accessories, "Face protection and hand warmers")
	}

	if conditions["Rain"] || conditions["Drizzle"] {
		rec.Accessories = append(rec.Accessories, "Waterproof jacket or raincoat", "Umbrella", "Waterproof shoes")
		rec.Activities = append(rec.Activities, "Plan indoor activities as backup")
	}
	if conditions["Snow"] {
		rec.Clothing = append(rec.Clothing, "Waterproof winter boots")
		rec.Accessories = append(rec.Accessories, "Snow gloves and warm socks")
		rec.Activities = append(rec.Activities, "Check for snow activities (skiing, snowboarding)")
		rec.General = append(rec.General, "Allow extra travel time due to snow")
	}
	if conditions["Thunderstorm"] {
		rec.General = append(rec.General, "Monitor weather alerts")
		rec.Activities = append(rec.Activities, "Have indoor backup plans")
		rec.Accessories = append(rec.Accessories, "Waterproof bag for electronics")
	}
	if conditions["Clear"] || conditions["Clouds"] {
		rec.Activities = append(rec.Activities, "Great weather for outdoor sightseeing", "Perfect for walking tours")
	}
	if maxWind > 10 {
		rec.Clothing = append(rec.Clothing, "Secure hat or avoid loose accessories")
		rec.General = append(rec.General, "Windy conditions expected - secure belongings")
	}
	return rec
}

func coordQuery(loc geoLocation) url.Values {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", loc.Lat))
	q.Set("lon", fmt.Sprintf("%f", loc.Lon))
	q.Set("units", "metric")
	return q
}

func (c *OpenWeatherClient) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	q.Set("appid", c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("weather http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("weather bad status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("weather decode: %w", err)
	}
	return nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
