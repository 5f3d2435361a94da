package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
)

// Report describes what the parser had to do beyond a plain decode.
type Report struct {
	Truncated    bool
	DroppedBytes int
	Closed       bool
	DroppedDays  []int
}

// Repaired reports whether any repair or normalisation changed the input.
func (r Report) Repaired() bool {
	return r.Truncated || r.Closed || len(r.DroppedDays) > 0
}

// Parser turns raw model text into an Itinerary.
type Parser struct{}

// Parse is Parser{}.Parse.
func Parse(raw string, trip request_models.TripRequest) (db_models.Itinerary, Report, error) {
	return Parser{}.Parse(raw, trip)
}

// Parse extracts, repairs if needed, decodes and normalises the model's
// JSON. Days are renumbered to match their position. Missing tips, total
// cost and headings are filled from trip; day content never is.
func (Parser) Parse(raw string, trip request_models.TripRequest) (db_models.Itinerary, Report, error) {
	var report Report

	text := stripFences(raw)
	if text == "" {
		return db_models.Itinerary{}, report, newParseError(StageExtract, raw, ErrEmptyText)
	}
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return db_models.Itinerary{}, report, newParseError(StageExtract, raw, ErrNoJSONObject)
	}

	if matchingBrace(text, start) < 0 {
		repaired, dropped, err := repairTruncated(text[start:])
		if err != nil {
			return db_models.Itinerary{}, report, newParseError(StageRepair, raw, err)
		}
		report.Truncated = true
		report.DroppedBytes = dropped
		text = repaired
	}

	candidate, _ := extractObject(text)
	var decoded rawItinerary
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		closed := closeOpenStructures(candidate)
		if err2 := json.Unmarshal([]byte(closed), &decoded); err2 != nil {
			return db_models.Itinerary{}, report, newParseError(StageDecode, raw,
				fmt.Errorf("%w: %v", ErrUnrepairableJSON, err))
		}
		report.Closed = true
	}
	if len(decoded.Days) == 0 && decoded.Itinerary != nil {
		decoded = *decoded.Itinerary
	}

	it, dropped := normalise(decoded, trip)
	report.DroppedDays = dropped
	if len(it.Days) == 0 {
		return db_models.Itinerary{}, report, newParseError(StageValidate, raw, ErrMissingDays)
	}
	return it, report, nil
}

// normalise converts the decoded response into an Itinerary. Day entries
// that are not objects, have no activities or repeat an earlier day number
// are dropped; their 1-based positions are returned.
func normalise(raw rawItinerary, trip request_models.TripRequest) (db_models.Itinerary, []int) {
	var (
		days    []db_models.DayPlan
		dropped []int
		seen    = make(map[int]bool)
	)
	for i, entry := range raw.Days {
		var d rawDay
		if err := json.Unmarshal(entry, &d); err != nil {
			dropped = append(dropped, i+1)
			continue
		}
		activities := d.Activities.strings()
		if len(activities) == 0 {
			dropped = append(dropped, i+1)
			continue
		}
		if n := int(d.Day); n > 0 {
			if seen[n] {
				dropped = append(dropped, i+1)
				continue
			}
			seen[n] = true
		}
		days = append(days, db_models.DayPlan{
			Title:          strings.TrimSpace(string(d.Title)),
			Activities:     activities,
			Meals:          d.Meals.strings(),
			Transportation: strings.TrimSpace(string(d.Transportation)),
			Budget:         strings.TrimSpace(string(d.Budget)),
		})
	}
	for i := range days {
		days[i].Day = i + 1
		if days[i].Title == "" {
			days[i].Title = fmt.Sprintf("Day %d", i+1)
		}
	}

	destination := strings.TrimSpace(trip.Destination)
	it := db_models.Itinerary{
		Title:              strings.TrimSpace(string(raw.Title)),
		Duration:           strings.TrimSpace(string(raw.Duration)),
		Overview:           strings.TrimSpace(string(raw.Overview)),
		Days:               days,
		Tips:               raw.Tips.strings(),
		TotalEstimatedCost: strings.TrimSpace(string(raw.TotalEstimatedCost)),
	}
	if it.Title == "" {
		it.Title = destination + " Itinerary"
	}
	if it.Duration == "" {
		it.Duration = durationLabel(trip.LengthInDays())
	}
	if it.Overview == "" {
		it.Overview = fmt.Sprintf("A %d-day trip to %s.", trip.LengthInDays(), destination)
	}
	if len(it.Tips) == 0 {
		it.Tips = append([]string(nil), DefaultTips...)
	}
	if it.TotalEstimatedCost == "" {
		it.TotalEstimatedCost = DefaultTotalCost
	}

	if raw.WeatherInfo != nil {
		info := &db_models.WeatherInfo{
			Forecast:               strings.TrimSpace(string(raw.WeatherInfo.Forecast)),
			PackingRecommendations: raw.WeatherInfo.PackingRecommendations.strings(),
		}
		if info.Forecast != "" || len(info.PackingRecommendations) > 0 {
			it.WeatherInfo = info
		}
	}
	if it.WeatherInfo == nil {
		it.WeatherInfo = WeatherInfoFrom(trip.Weather)
	}
	return it, dropped
}

func durationLabel(days int) string {
	if days == 1 {
		return "1 Day"
	}
	return fmt.Sprintf("%d Days", days)
}
