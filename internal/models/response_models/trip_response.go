package response_models

import "tripmate/internal/models/db_models"

type TripListResponse struct {
	Trips []db_models.Trip `json:"trips"`
	Total int              `json:"total"`
}

type GenerateItineraryResponse struct {
	TripID       string              `json:"tripId"`
	Itinerary    db_models.Itinerary `json:"itinerary"`
	UsedFallback bool                `json:"usedFallback"`
	ErrorDetail  string              `json:"errorDetail,omitempty"`
	Status       string              `json:"status"`
}
