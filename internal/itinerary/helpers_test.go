package itinerary

import (
	"fmt"
	"strings"
	"time"

	"tripmate/internal/models/request_models"
)

func parisTrip() request_models.TripRequest {
	return request_models.TripRequest{
		Destination: "Paris, France",
		StartDate:   request_models.NewDate(2025, time.June, 1),
		EndDate:     request_models.NewDate(2025, time.June, 5),
	}
}

func tripOfLength(days int) request_models.TripRequest {
	start := request_models.NewDate(2025, time.March, 10)
	return request_models.TripRequest{
		Destination: "Kyoto",
		StartDate:   start,
		EndDate:     request_models.Date{Time: start.AddDate(0, 0, days)},
	}
}

func dayJSON(n int) string {
	return fmt.Sprintf(`{"day": %d, "title": "Day %d", "activities": ["Activity %d.1", "Activity %d.2"], "meals": ["Breakfast"], "transportation": "Metro", "budget": "₹5,000"}`,
		n, n, n, n)
}

func itineraryJSON(days int) string {
	entries := make([]string, days)
	for i := range entries {
		entries[i] = dayJSON(i + 1)
	}
	return `{"title": "Paris in Spring", "duration": "` + fmt.Sprint(days) + ` Days", "overview": "Museums and cafes", "days": [` +
		strings.Join(entries, ", ") +
		`], "tips": ["Carry a metro pass"], "totalEstimatedCost": "₹1,20,000"}`
}
