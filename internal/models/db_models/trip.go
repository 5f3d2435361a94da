package db_models

import (
	"time"

	"tripmate/internal/models/request_models"
)

type TripStatus string

const (
	TripStatusPlanning   TripStatus = "planning"
	TripStatusPlanned    TripStatus = "planned"
	TripStatusBooked     TripStatus = "booked"
	TripStatusInProgress TripStatus = "in-progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusPlanning, TripStatusPlanned, TripStatusBooked,
		TripStatusInProgress, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

type ItineraryMeta struct {
	UsedFallback bool      `json:"usedFallback"`
	ErrorDetail  string    `json:"errorDetail,omitempty"`
	Model        string    `json:"model,omitempty"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// Trip is stored as a document at trips/{userId}/{id}.
type Trip struct {
	ID                string                          `json:"id"`
	UserID            string                          `json:"userId"`
	Destination       string                          `json:"destination"`
	StartDate         request_models.Date             `json:"startDate"`
	EndDate           request_models.Date             `json:"endDate"`
	Budget            *float64                        `json:"budget,omitempty"`
	Participants      []string                        `json:"participants,omitempty"`
	NumberOfTravelers int                             `json:"numberOfTravelers,omitempty"`
	CurrentLocation   *request_models.GeoLocation     `json:"currentLocation,omitempty"`
	Preferences       *request_models.UserPreferences `json:"preferences,omitempty"`
	ExcludedPlaces    []string                        `json:"excludedPlaces,omitempty"`
	Status            TripStatus                      `json:"status"`
	Itinerary         *Itinerary                      `json:"itinerary,omitempty"`
	ItineraryMeta     *ItineraryMeta                  `json:"itineraryMeta,omitempty"`
	CreatedAt         time.Time                       `json:"createdAt"`
	UpdatedAt         time.Time                       `json:"updatedAt"`
}

// TripRequest projects the stored trip onto the itinerary pipeline input.
func (t Trip) TripRequest() request_models.TripRequest {
	return request_models.TripRequest{
		Destination:       t.Destination,
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
		Budget:            t.Budget,
		Participants:      t.Participants,
		NumberOfTravelers: t.NumberOfTravelers,
		CurrentLocation:   t.CurrentLocation,
		Preferences:       t.Preferences,
		ExcludedPlaces:    t.ExcludedPlaces,
	}
}
