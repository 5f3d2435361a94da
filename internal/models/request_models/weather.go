package request_models

// DailyWeather is one calendar day of forecast, aggregated from the
// provider's 3-hourly samples. Temperatures are Celsius.
type DailyWeather struct {
	Date          string  `json:"date"`
	Temperature   float64 `json:"temperature"`
	MinTemp       float64 `json:"minTemp"`
	MaxTemp       float64 `json:"maxTemp"`
	Condition     string  `json:"condition"`
	Description   string  `json:"description,omitempty"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"windSpeed"`
	Precipitation float64 `json:"precipitation"`
}

type WeatherRecommendations struct {
	Clothing    []string `json:"clothing"`
	Accessories []string `json:"accessories"`
	Activities  []string `json:"activities"`
	General     []string `json:"general"`
}

// WeatherSummary is the optional weather input of itinerary generation.
type WeatherSummary struct {
	Location        string                 `json:"location,omitempty"`
	Forecast        []DailyWeather         `json:"forecast"`
	Recommendations WeatherRecommendations `json:"recommendations"`
	Note            string                 `json:"note,omitempty"`
}
