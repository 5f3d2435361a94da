// Package itinerary holds the pure stages of itinerary generation: prompt
// building, parsing and repair of model output, the deterministic fallback
// template and output sanitisation. Nothing here performs I/O.
package itinerary

import (
	"fmt"
	"math"
	"strings"

	"tripmate/internal/models/request_models"
)

// MaxPromptChars is the size above which a prompt is reported as oversized.
// Oversized prompts are still sent.
const MaxPromptChars = 30000

const (
	CurrencyCode   = "INR"
	CurrencySymbol = "₹"
)

type labelled struct {
	key   string
	label string
}

var budgetLevels = []labelled{
	{"under-500", "Budget-conscious (Under ₹40,000)"},
	{"500-1000", "Mid-range (₹40,000 - ₹80,000)"},
	{"1000-2500", "Comfortable (₹80,000 - ₹2,00,000)"},
	{"2500-5000", "Premium (₹2,00,000 - ₹4,00,000)"},
	{"over-5000", "Luxury (Over ₹4,00,000)"},
}

var travelStyles = []labelled{
	{"budget", "Budget traveler, focus on affordable options and value for money"},
	{"mid-range", "Mid-range traveler, balance of comfort and cost"},
	{"luxury", "Luxury traveler, premium experiences and comfort"},
	{"backpacking", "Backpacker, adventurous and flexible on a tight budget"},
	{"family", "Family-friendly, activities suitable for all ages"},
	{"solo", "Solo traveler, safe and social options with flexible plans"},
}

func lookupLabel(table []labelled, key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, l := range table {
		if l.key == k {
			return l.label
		}
	}
	return strings.TrimSpace(key)
}

// BudgetLevelLabel maps a budget range key such as "500-1000" to its
// description. Unknown keys are returned unchanged.
func BudgetLevelLabel(key string) string {
	return lookupLabel(budgetLevels, key)
}

func TravelStyleLabel(key string) string {
	return lookupLabel(travelStyles, key)
}

// GroupDescription phrases the party size the way the prompt uses it.
func GroupDescription(travelers int) string {
	switch {
	case travelers <= 1:
		return "solo traveler"
	case travelers == 2:
		return "couple"
	default:
		return fmt.Sprintf("group of %d people", travelers)
	}
}

func groupGuidance(travelers int) string {
	switch {
	case travelers <= 1:
		return "Focus on solo-friendly activities and single occupancy options."
	case travelers == 2:
		return "Recommend activities suited to couples and double occupancy accommodations."
	default:
		return fmt.Sprintf("Plan group activities suitable for %d people and recommend group accommodations and transportation.", travelers)
	}
}

// BuildPrompt renders the instruction text sent to the model. The output
// depends only on req, so identical requests produce identical prompts.
func BuildPrompt(req request_models.TripRequest) string {
	days := req.LengthInDays()
	travelers := req.TravelerCount()
	destination := strings.TrimSpace(req.Destination)
	hasWeather := req.Weather != nil && len(req.Weather.Forecast) > 0
	prefLines := preferenceLines(req.Preferences)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a travel itinerary in JSON format for %s, %d days, %d traveler(s), budget: %s.\n\n",
		destination, days, travelers, budgetText(req.Budget))

	fmt.Fprintf(&b, "Dates: %s to %s\n", req.StartDate, req.EndDate)
	fmt.Fprintf(&b, "Group size: %d %s\n", travelers, GroupDescription(travelers))
	if loc := req.CurrentLocation; loc != nil {
		fmt.Fprintf(&b, "Starting from: %s (%.4f, %.4f). Consider travel time and transportation options from this location to %s.\n",
			locationName(loc), loc.Latitude, loc.Longitude, destination)
	}

	if hasWeather {
		writeWeatherContext(&b, destination, req.Weather)
	}

	if len(prefLines) > 0 {
		b.WriteString("\nUser preferences:\n")
		for _, line := range prefLines {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString("\nPlease tailor the itinerary to match these preferences and interests.\n")
	}

	b.WriteString("\nIMPORTANT:\n")
	b.WriteString("- Use plain text only. Do not use markdown formatting (bold, italics) or special characters.\n")
	fmt.Fprintf(&b, "- All budget and cost estimates must be in Indian Rupees (%s) using the %s symbol.\n", CurrencyCode, CurrencySymbol)
	fmt.Fprintf(&b, "- Consider the group size of %d when recommending activities, accommodations and transportation.\n", travelers)
	fmt.Fprintf(&b, "- %s\n", groupGuidance(travelers))
	if hasWeather {
		b.WriteString("- Factor in the weather forecast when suggesting activities and include weather-appropriate clothing recommendations.\n")
	}
	if len(prefLines) > 0 {
		b.WriteString("- Tailor all recommendations to the user's stated preferences, travel style and interests.\n")
	}

	b.WriteString("\nJSON format (be concise):\n")
	writeSchema(&b, days, hasWeather)

	fmt.Fprintf(&b, "\nInclude specific places, restaurants and attractions in %s. Focus on popular attractions and practical details.\n", destination)
	fmt.Fprintf(&b, "Write exactly %d entries in \"days\", numbered 1 to %d.\n", days, days)
	if hasWeather {
		b.WriteString("Include indoor and outdoor options based on the forecast and suggest suitable clothing and gear in the tips.\n")
	}
	if excluded := cleanList(req.ExcludedPlaces); len(excluded) > 0 {
		fmt.Fprintf(&b, "Exclude: %s\n", strings.Join(excluded, ", "))
	}
	if loc := req.CurrentLocation; loc != nil {
		fmt.Fprintf(&b, "Consider transportation from %s and include travel recommendations.\n", locationName(loc))
	}

	b.WriteString("\nReturn only valid JSON with plain text content, no markdown formatting, no extra text.")
	return b.String()
}

func budgetText(budget *float64) string {
	if budget == nil || *budget <= 0 {
		return "moderate"
	}
	return CurrencySymbol + FormatAmount(int64(math.Round(*budget)))
}

func locationName(loc *request_models.GeoLocation) string {
	if name := strings.TrimSpace(loc.Name); name != "" {
		return name
	}
	return "the traveler's current location"
}

func preferenceLines(p *request_models.UserPreferences) []string {
	if p == nil {
		return nil
	}
	var lines []string
	if p.BudgetRange != "" {
		lines = append(lines, "Budget preference: "+BudgetLevelLabel(p.BudgetRange))
	}
	if p.TravelStyle != "" {
		lines = append(lines, "Travel style: "+TravelStyleLabel(p.TravelStyle))
	}
	if interests := cleanList(p.Interests); len(interests) > 0 {
		lines = append(lines, "Interests: "+strings.Join(interests, ", "))
	}
	if p.Accommodation != "" {
		lines = append(lines, "Accommodation: "+strings.TrimSpace(p.Accommodation))
	}
	if p.Transportation != "" {
		lines = append(lines, "Preferred transportation: "+strings.TrimSpace(p.Transportation))
	}
	if dietary := cleanList(p.DietaryRestrictions); len(dietary) > 0 {
		lines = append(lines, "Dietary restrictions: "+strings.Join(dietary, ", "))
	}
	return lines
}

func writeWeatherContext(b *strings.Builder, destination string, w *request_models.WeatherSummary) {
	var total float64
	rainDays := 0
	var conditions []string
	seen := make(map[string]bool)
	for _, day := range w.Forecast {
		total += day.Temperature
		if day.Precipitation > 0 {
			rainDays++
		}
		cond := strings.TrimSpace(day.Condition)
		if cond == "" {
			cond = "unknown"
		}
		if !seen[cond] {
			seen[cond] = true
			conditions = append(conditions, cond)
		}
	}
	avg := total / float64(len(w.Forecast))

	clothing := "Standard travel clothing"
	if len(w.Recommendations.Clothing) > 0 {
		clothing = strings.Join(w.Recommendations.Clothing, ", ")
	}
	accessories := "Basic travel essentials"
	if len(w.Recommendations.Accessories) > 0 {
		accessories = strings.Join(w.Recommendations.Accessories, ", ")
	}

	fmt.Fprintf(b, "\nWeather forecast for %s:\n", destination)
	fmt.Fprintf(b, "- Average temperature: %d°C\n", int(math.Round(avg)))
	fmt.Fprintf(b, "- Expected conditions: %s\n", strings.Join(conditions, ", "))
	fmt.Fprintf(b, "- Days with precipitation: %d/%d\n", rainDays, len(w.Forecast))
	fmt.Fprintf(b, "- Recommended clothing: %s\n", clothing)
	fmt.Fprintf(b, "- Additional packing: %s\n", accessories)
	if w.Note != "" {
		fmt.Fprintf(b, "- Note: %s\n", w.Note)
	}
	b.WriteString("\nConsider the weather when suggesting activities (indoor alternatives for rainy days) and include clothing advice in the tips.\n")
}

func writeSchema(b *strings.Builder, days int, withWeather bool) {
	overview := "Brief overview in plain text"
	if withWeather {
		overview += " including weather considerations"
	}
	b.WriteString("{\n")
	b.WriteString("  \"title\": \"Trip title\",\n")
	fmt.Fprintf(b, "  \"duration\": \"%s\",\n", durationLabel(days))
	fmt.Fprintf(b, "  \"overview\": \"%s\",\n", overview)
	b.WriteString("  \"days\": [\n")
	b.WriteString("    {\n")
	b.WriteString("      \"day\": 1,\n")
	b.WriteString("      \"title\": \"Day title in plain text\",\n")
	b.WriteString("      \"activities\": [\"Activity 1\", \"Activity 2\", \"Activity 3\"],\n")
	b.WriteString("      \"meals\": [\"Breakfast suggestion\", \"Dinner suggestion\"],\n")
	b.WriteString("      \"transportation\": \"Transport method\",\n")
	fmt.Fprintf(b, "      \"budget\": \"Daily budget estimate in %s with %s symbol\"\n", CurrencyCode, CurrencySymbol)
	b.WriteString("    }\n")
	b.WriteString("  ],\n")
	b.WriteString("  \"tips\": [\"Tip 1\", \"Tip 2\", \"Tip 3\"")
	if withWeather {
		b.WriteString(", \"Weather-appropriate clothing and packing suggestions\"")
	}
	b.WriteString("],\n")
	fmt.Fprintf(b, "  \"totalEstimatedCost\": \"Total cost estimate in %s with %s symbol\"", CurrencyCode, CurrencySymbol)
	if withWeather {
		b.WriteString(",\n  \"weatherInfo\": {\n")
		b.WriteString("    \"forecast\": \"Brief weather summary for the trip dates\",\n")
		b.WriteString("    \"packingRecommendations\": [\"Essential items for the weather conditions\"]\n")
		b.WriteString("  }")
	}
	b.WriteString("\n}\n")
}

// cleanList trims entries and drops blanks and case-insensitive duplicates,
// keeping first-seen order.
func cleanList(items []string) []string {
	var out []string
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
