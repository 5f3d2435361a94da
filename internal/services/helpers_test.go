package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tripmate/internal/models/request_models"
)

func parisRequest() request_models.TripRequest {
	return request_models.TripRequest{
		Destination:       "Paris, France",
		StartDate:         request_models.NewDate(2025, time.June, 1),
		EndDate:           request_models.NewDate(2025, time.June, 5),
		NumberOfTravelers: 2,
	}
}

func requestOfLength(days int) request_models.TripRequest {
	start := request_models.NewDate(2025, time.March, 10)
	return request_models.TripRequest{
		Destination: "Kyoto",
		StartDate:   start,
		EndDate:     request_models.Date{Time: start.AddDate(0, 0, days)},
	}
}

// modelJSON renders a days-long itinerary; day numbers start at firstDay.
func modelJSON(days, firstDay int, firstActivity string) string {
	entries := make([]string, days)
	for i := range entries {
		activity := fmt.Sprintf("Sight %d", i+1)
		if i == 0 && firstActivity != "" {
			activity = firstActivity
		}
		entries[i] = fmt.Sprintf(`{"day": %d, "title": "Day %d", "activities": [%q, "Lunch stroll"], "meals": ["Cafe breakfast"], "transportation": "Metro", "budget": "₹6,000"}`,
			firstDay+i, i+1, activity)
	}
	return "```json\n" + `{"title": "Paris Highlights", "duration": "` + fmt.Sprint(days) + ` Days", "overview": "Art and food", "days": [` +
		strings.Join(entries, ", ") +
		`], "tips": ["Book museums early"], "totalEstimatedCost": "₹1,50,000"}` + "\n```"
}

type fakeModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeModel) CallModel(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeModel) SelectedModel() string { return "fake-model" }

func (f *fakeModel) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeWeather struct {
	enabled bool
	summary *request_models.WeatherSummary
	err     error
	calls   int
}

func (f *fakeWeather) Enabled() bool { return f.enabled }

func (f *fakeWeather) GetWeatherForTrip(_ context.Context, _ string, _, _ time.Time) (*request_models.WeatherSummary, error) {
	f.calls++
	return f.summary, f.err
}
