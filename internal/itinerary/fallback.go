package itinerary

import (
	"fmt"
	"math"
	"strings"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
)

// MaxFallbackDays caps the number of days the template produces.
const MaxFallbackDays = 7

// Fallback builds a template itinerary from the trip alone. It cannot
// fail and it is deterministic: the same trip always yields the same
// itinerary.
func Fallback(trip request_models.TripRequest) db_models.Itinerary {
	destination := strings.TrimSpace(trip.Destination)
	if destination == "" {
		destination = "your destination"
	}
	length := trip.LengthInDays()

	days := make([]db_models.DayPlan, 0, min(length, MaxFallbackDays))
	for i := 1; i <= min(length, MaxFallbackDays); i++ {
		days = append(days, db_models.DayPlan{
			Day:   i,
			Title: fmt.Sprintf("Day %d in %s", i, destination),
			Activities: []string{
				"Explore main attractions in " + destination,
				"Visit local markets and cultural sites",
				"Enjoy authentic local cuisine",
				"Evening leisure activities",
			},
			Meals: []string{
				"Local breakfast specialties",
				"Traditional dinner at recommended restaurant",
			},
			Transportation: "Local transport and walking",
			Budget:         CurrencySymbol + "8,000-12,000",
		})
	}

	low := int64(40000 + length*8000)
	high := int64(65000 + length*12000)

	return db_models.Itinerary{
		Title:    destination + " Adventure",
		Duration: durationLabel(length),
		Overview: fmt.Sprintf("A %d-day journey through %s, featuring the best attractions, local experiences and cultural highlights.",
			length, destination),
		Days: days,
		Tips: []string{
			"Research local customs and etiquette in " + destination,
			"Book major attractions in advance",
			"Try local cuisine and specialties",
			"Keep important documents safe",
			"Learn basic phrases in the local language",
		},
		TotalEstimatedCost: fmt.Sprintf("%s%s-%s per person", CurrencySymbol, FormatAmount(low), FormatAmount(high)),
		WeatherInfo:        WeatherInfoFrom(trip.Weather),
	}
}

// WeatherInfoFrom summarises the weather that went into a plan, or
// returns nil when there was none.
func WeatherInfoFrom(w *request_models.WeatherSummary) *db_models.WeatherInfo {
	if w == nil || len(w.Forecast) == 0 {
		return nil
	}
	minT, maxT := math.Inf(1), math.Inf(-1)
	var conditions []string
	for _, day := range w.Forecast {
		minT = math.Min(minT, day.MinTemp)
		maxT = math.Max(maxT, day.MaxTemp)
		conditions = append(conditions, day.Condition)
	}
	conditions = cleanList(conditions)

	forecast := fmt.Sprintf("%d to %d°C", int(math.Round(minT)), int(math.Round(maxT)))
	if len(conditions) > 0 {
		forecast += ", " + strings.ToLower(strings.Join(conditions, ", "))
	}
	if w.Note != "" {
		forecast += ". " + w.Note
	}

	var packing []string
	packing = append(packing, w.Recommendations.Clothing...)
	packing = append(packing, w.Recommendations.Accessories...)
	return &db_models.WeatherInfo{
		Forecast:               forecast,
		PackingRecommendations: cleanList(packing),
	}
}
