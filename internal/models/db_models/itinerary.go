package db_models

type DayPlan struct {
	Day            int      `json:"day"`
	Title          string   `json:"title"`
	Activities     []string `json:"activities"`
	Meals          []string `json:"meals,omitempty"`
	Transportation string   `json:"transportation,omitempty"`
	Budget         string   `json:"budget,omitempty"`
}

type WeatherInfo struct {
	Forecast               string   `json:"forecast,omitempty"`
	PackingRecommendations []string `json:"packingRecommendations,omitempty"`
}

type Itinerary struct {
	Title              string       `json:"title"`
	Duration           string       `json:"duration"`
	Overview           string       `json:"overview"`
	Days               []DayPlan    `json:"days"`
	Tips               []string     `json:"tips"`
	TotalEstimatedCost string       `json:"totalEstimatedCost"`
	WeatherInfo        *WeatherInfo `json:"weatherInfo,omitempty"`
}
