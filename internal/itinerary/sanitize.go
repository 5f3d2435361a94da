package itinerary

import (
	"regexp"
	"strings"

	"tripmate/internal/models/db_models"
)

// Emphasis markers are removed in this order; the final pattern drops any
// asterisks left unpaired.
var markdownRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},
	{regexp.MustCompile(`\*(.*?)\*`), "$1"},
	{regexp.MustCompile(`__(.*?)__`), "$1"},
	{regexp.MustCompile(`_(.*?)_`), "$1"},
	{regexp.MustCompile(`\*+`), ""},
}

// CleanText strips markdown emphasis from s and trims it. Applying it a
// second time changes nothing.
func CleanText(s string) string {
	for _, rule := range markdownRules {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	return strings.TrimSpace(s)
}

func cleanTexts(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = CleanText(s)
	}
	return out
}

// Sanitize returns a copy of it with every text field cleaned. The
// input is not modified.
func Sanitize(it db_models.Itinerary) db_models.Itinerary {
	out := db_models.Itinerary{
		Title:              CleanText(it.Title),
		Duration:           CleanText(it.Duration),
		Overview:           CleanText(it.Overview),
		Tips:               cleanTexts(it.Tips),
		TotalEstimatedCost: CleanText(it.TotalEstimatedCost),
	}
	if it.Days != nil {
		out.Days = make([]db_models.DayPlan, len(it.Days))
		for i, d := range it.Days {
			out.Days[i] = db_models.DayPlan{
				Day:            d.Day,
				Title:          CleanText(d.Title),
				Activities:     cleanTexts(d.Activities),
				Meals:          cleanTexts(d.Meals),
				Transportation: CleanText(d.Transportation),
				Budget:         CleanText(d.Budget),
			}
		}
	}
	if it.WeatherInfo != nil {
		out.WeatherInfo = &db_models.WeatherInfo{
			Forecast:               CleanText(it.WeatherInfo.Forecast),
			PackingRecommendations: cleanTexts(it.WeatherInfo.PackingRecommendations),
		}
	}
	return out
}
