package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/models/request_models"
	mem "tripmate/pkg/memcache"
)

const june1 = 1748736000 // 2025-06-01T00:00:00Z

func sample(dt int64, temp, wind float64, main string, rain float64) map[string]any {
	s := map[string]any{
		"dt":      dt,
		"main":    map[string]any{"temp": temp, "humidity": 60},
		"weather": []map[string]any{{"main": main, "description": main + " sky"}},
		"wind":    map[string]any{"speed": wind},
	}
	if rain > 0 {
		s["rain"] = map[string]any{"3h": rain}
	}
	return s
}

func newWeatherServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("appid") != "test-key" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("q") == "Atlantis" {
			_ = json.NewEncoder(w).Encode([]any{})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"name": "Paris", "lat": 48.85, "lon": 2.35, "country": "FR"}})
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"list": []any{
			sample(june1, 18, 3, "Rain", 1.2),
			sample(june1+3*3600, 22, 5, "Rain", 0.4),
			sample(june1+6*3600, 26, 4, "Clouds", 0),
			sample(june1+24*3600, 24, 12, "Clear", 0),
			sample(june1+48*3600, 30, 2, "Clear", 0),
		}})
	})
	mux.HandleFunc("/data/2.5/weather", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(sample(june1, 4.6, 2, "Snow", 0))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestWeather(srv *httptest.Server, now time.Time, cache mem.Cache) *OpenWeatherClient {
	return &OpenWeatherClient{
		HTTP:     srv.Client(),
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/data/2.5",
		GeoURL:   srv.URL + "/geo/1.0",
		Cache:    cache,
		CacheTTL: time.Hour,
		log:      zap.NewNop(),
		now:      func() time.Time { return now },
	}
}

func TestWeatherForecastWithinHorizon(t *testing.T) {
	var hits atomic.Int32
	srv := newWeatherServer(t, &hits)
	client := newTestWeather(srv, time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC), mem.NewTTLCache())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	summary, err := client.GetWeatherForTrip(context.Background(), "Paris", start, end)
	if err != nil {
		t.Fatalf("GetWeatherForTrip: %v", err)
	}
	if summary.Location != "Paris, FR" {
		t.Errorf("location = %q", summary.Location)
	}
	if len(summary.Forecast) != 2 {
		t.Fatalf("forecast days = %d, want 2 (trip dates only)", len(summary.Forecast))
	}
	day1 := summary.Forecast[0]
	if day1.Date != "2025-06-01" || day1.Condition != "Rain" || day1.Temperature != 22 ||
		day1.MinTemp != 18 || day1.MaxTemp != 26 || day1.Precipitation != 1.6 {
		t.Errorf("day1 = %+v", day1)
	}
	if !slices.Contains(summary.Recommendations.Accessories, "Umbrella") {
		t.Errorf("rain not reflected: %+v", summary.Recommendations)
	}
	if !slices.Contains(summary.Recommendations.General, "Windy conditions expected - secure belongings") {
		t.Errorf("wind not reflected: %+v", summary.Recommendations)
	}

	before := hits.Load()
	if _, err := client.GetWeatherForTrip(context.Background(), "paris ", start, end); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != before {
		t.Error("cached lookup hit the provider again")
	}
}

func TestWeatherBeyondHorizonUsesCurrent(t *testing.T) {
	var hits atomic.Int32
	srv := newWeatherServer(t, &hits)
	client := newTestWeather(srv, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), nil)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	summary, err := client.GetWeatherForTrip(context.Background(), "Paris", start, start.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("GetWeatherForTrip: %v", err)
	}
	if len(summary.Forecast) != 1 || summary.Note == "" {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Forecast[0].Temperature != 5 || summary.Forecast[0].Condition != "Snow" {
		t.Errorf("current = %+v", summary.Forecast[0])
	}
	if !slices.Contains(summary.Recommendations.Clothing, "Heavy winter clothing") ||
		!slices.Contains(summary.Recommendations.General, "Allow extra travel time due to snow") {
		t.Errorf("recommendations = %+v", summary.Recommendations)
	}
}

func TestWeatherErrors(t *testing.T) {
	var hits atomic.Int32
	srv := newWeatherServer(t, &hits)
	now := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := newTestWeather(srv, now, nil).GetWeatherForTrip(context.Background(), "Atlantis", start, start); err == nil {
		t.Error("expected location error")
	}

	bad := newTestWeather(srv, now, nil)
	bad.APIKey = "wrong"
	if _, err := bad.GetWeatherForTrip(context.Background(), "Paris", start, start); err == nil {
		t.Error("expected status error")
	}

	disabled := newTestWeather(srv, now, nil)
	disabled.APIKey = ""
	if disabled.Enabled() {
		t.Error("enabled without key")
	}
	if _, err := disabled.GetWeatherForTrip(context.Background(), "Paris", start, start); err != ErrWeatherDisabled {
		t.Errorf("err = %v", err)
	}
}

func TestWeatherRecommendationBands(t *testing.T) {
	day := func(temp float64, cond string) request_models.DailyWeather {
		return request_models.DailyWeather{Temperature: temp, Condition: cond}
	}
	cases := []struct {
		name string
		days []request_models.DailyWeather
		want string
	}{
		{"hot", []request_models.DailyWeather{day(33, "Clear")}, "Shorts and t-shirts"},
		{"warm with cool evenings", []request_models.DailyWeather{day(24, "Clouds"), day(12, "Clouds")}, "Warm sweater for cool evenings"},
		{"warm", []request_models.DailyWeather{day(24, "Clouds"), day(18, "Clouds")}, "Light sweater for evenings"},
		{"mild", []request_models.DailyWeather{day(15, "Drizzle")}, "Light coat or jacket"},
		{"cold", []request_models.DailyWeather{day(3, "Snow")}, "Insulated boots"},
		{"arctic", []request_models.DailyWeather{day(-8, "Snow")}, "Arctic-level winter gear"},
	}
	for _, tc := range cases {
		rec := WeatherRecommendationsFor(tc.days)
		if !slices.Contains(rec.Clothing, tc.want) {
			t.Errorf("%s: clothing %v missing %q", tc.name, rec.Clothing, tc.want)
		}
	}

	empty := WeatherRecommendationsFor(nil)
	if empty.Clothing == nil || len(empty.Clothing) != 0 {
		t.Errorf("empty recommendations = %+v", empty)
	}

	storm := WeatherRecommendationsFor([]request_models.DailyWeather{day(25, "Thunderstorm")})
	if !slices.Contains(storm.General, "Monitor weather alerts") {
		t.Errorf("storm = %+v", storm)
	}
}

func TestMostCommonConditionTieKeepsFirst(t *testing.T) {
	got := mostCommonCondition([]owmCondition{{Main: "Clear"}, {Main: "Rain"}, {Main: "Rain"}, {Main: "Clear"}})
	if got.Main != "Clear" {
		t.Errorf("got %s", got.Main)
	}
}
