package request_models

import (
	"math"
	"strings"
	"time"

	"tripmate/pkg/utils"
)

const (
	MinDestinationLength = 2
	MaxTripBudget        = 1_000_000
)

type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

type UserPreferences struct {
	Interests           []string `json:"interests,omitempty"`
	TravelStyle         string   `json:"travelStyle,omitempty"`
	BudgetRange         string   `json:"budgetRange,omitempty"`
	Accommodation       string   `json:"accommodation,omitempty"`
	Transportation      string   `json:"transportation,omitempty"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
}

// TripRequest is everything the itinerary pipeline needs to know about a trip.
type TripRequest struct {
	Destination       string           `json:"destination"`
	StartDate         Date             `json:"startDate"`
	EndDate           Date             `json:"endDate"`
	Budget            *float64         `json:"budget,omitempty"`
	Participants      []string         `json:"participants,omitempty"`
	NumberOfTravelers int              `json:"numberOfTravelers,omitempty"`
	CurrentLocation   *GeoLocation     `json:"currentLocation,omitempty"`
	Preferences       *UserPreferences `json:"preferences,omitempty"`
	ExcludedPlaces    []string         `json:"excludedPlaces,omitempty"`
	Weather           *WeatherSummary  `json:"weather,omitempty"`
}

// ValidationError lists every problem found in a request. It matches
// utils.ErrInvalidInput with errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == utils.ErrInvalidInput
}

func (r TripRequest) Validate() error {
	var problems []string
	if strings.TrimSpace(r.Destination) == "" {
		problems = append(problems, "destination is required")
	}
	problems = append(problems, validateDates(r.StartDate, r.EndDate)...)
	if r.Budget != nil && (*r.Budget < 0 || math.IsNaN(*r.Budget)) {
		problems = append(problems, "budget must not be negative")
	}
	if r.NumberOfTravelers < 0 {
		problems = append(problems, "numberOfTravelers must not be negative")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// TravelerCount is the explicit traveler count, or the organiser plus
// every listed participant.
func (r TripRequest) TravelerCount() int {
	if r.NumberOfTravelers > 0 {
		return r.NumberOfTravelers
	}
	return len(r.Participants) + 1
}

// LengthInDays rounds the start-to-end span up to whole days. A same-day
// trip counts as one day.
func (r TripRequest) LengthInDays() int {
	return TripLengthDays(r.StartDate.Time, r.EndDate.Time)
}

func TripLengthDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

func validateDates(start, end Date) []string {
	var problems []string
	if start.IsZero() {
		problems = append(problems, "startDate is required")
	}
	if end.IsZero() {
		problems = append(problems, "endDate is required")
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start.Time) {
		problems = append(problems, "endDate must not be before startDate")
	}
	return problems
}

type CreateTripRequest struct {
	Destination       string           `json:"destination" binding:"required"`
	StartDate         Date             `json:"startDate"`
	EndDate           Date             `json:"endDate"`
	Budget            *float64         `json:"budget,omitempty"`
	Participants      []string         `json:"participants,omitempty" binding:"omitempty,dive,email"`
	NumberOfTravelers int              `json:"numberOfTravelers,omitempty" binding:"omitempty,min=1,max=50"`
	CurrentLocation   *GeoLocation     `json:"currentLocation,omitempty"`
	Preferences       *UserPreferences `json:"preferences,omitempty"`
}

func (r CreateTripRequest) Validate() error {
	var problems []string
	if len(strings.TrimSpace(r.Destination)) < MinDestinationLength {
		problems = append(problems, "destination must be at least 2 characters long")
	}
	problems = append(problems, validateDates(r.StartDate, r.EndDate)...)
	problems = append(problems, validateBudget(r.Budget)...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// UpdateTripRequest is a partial update; nil fields are left unchanged.
type UpdateTripRequest struct {
	Destination       *string          `json:"destination,omitempty"`
	StartDate         *Date            `json:"startDate,omitempty"`
	EndDate           *Date            `json:"endDate,omitempty"`
	Budget            *float64         `json:"budget,omitempty"`
	Participants      []string         `json:"participants,omitempty" binding:"omitempty,dive,email"`
	NumberOfTravelers *int             `json:"numberOfTravelers,omitempty" binding:"omitempty,min=1,max=50"`
	CurrentLocation   *GeoLocation     `json:"currentLocation,omitempty"`
	Preferences       *UserPreferences `json:"preferences,omitempty"`
	Status            *string          `json:"status,omitempty"`
}

func (r UpdateTripRequest) Validate() error {
	var problems []string
	if r.Destination != nil && len(strings.TrimSpace(*r.Destination)) < MinDestinationLength {
		problems = append(problems, "destination must be at least 2 characters long")
	}
	problems = append(problems, validateBudget(r.Budget)...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

type GenerateItineraryRequest struct {
	Preferences    *UserPreferences `json:"preferences,omitempty"`
	IncludeWeather *bool            `json:"includeWeather,omitempty"`
}

type RegenerateItineraryRequest struct {
	ExcludedPlaces []string         `json:"excludedPlaces" binding:"required,min=1"`
	Preferences    *UserPreferences `json:"preferences,omitempty"`
	IncludeWeather *bool            `json:"includeWeather,omitempty"`
}

func validateBudget(budget *float64) []string {
	if budget == nil {
		return nil
	}
	if *budget < 0 || *budget > MaxTripBudget || math.IsNaN(*budget) {
		return []string{"budget must be between 0 and 1,000,000"}
	}
	return nil
}
