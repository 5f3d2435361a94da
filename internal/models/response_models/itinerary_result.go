package response_models

import "tripmate/internal/models/db_models"

// ItineraryResult is what one run of the generation pipeline produces.
// UsedFallback is set when the deterministic template replaced the model
// output; ErrorDetail then says why.
type ItineraryResult struct {
	Itinerary    db_models.Itinerary `json:"itinerary"`
	UsedFallback bool                `json:"usedFallback"`
	ErrorDetail  string              `json:"errorDetail,omitempty"`
	Model        string              `json:"model,omitempty"`
}
