package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	"tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, userID string, req request_models.CreateTripRequest) (*db_models.Trip, error)
	ListTrips(ctx context.Context, userID string) ([]db_models.Trip, error)
	GetTrip(ctx context.Context, userID, tripID string) (*db_models.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID string, req request_models.UpdateTripRequest) (*db_models.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID string) error
	GenerateItinerary(ctx context.Context, userID, tripID string, req request_models.GenerateItineraryRequest) (*response_models.GenerateItineraryResponse, error)
	RegenerateItinerary(ctx context.Context, userID, tripID string, req request_models.RegenerateItineraryRequest) (*response_models.GenerateItineraryResponse, error)
	SetStatus(ctx context.Context, userID, tripID string, status db_models.TripStatus) error
}

type TripService struct {
	tripRepo     repositories.TripRepository
	itinerarySvc ItineraryServiceInterface
	weatherSvc   WeatherServiceInterface
	log          *zap.Logger
	now          func() time.Time
}

func NewTripService(
	tripRepo repositories.TripRepository,
	itinerarySvc ItineraryServiceInterface,
	weatherSvc WeatherServiceInterface,
	log *zap.Logger,
) TripServiceInterface {
	return &TripService{
		tripRepo:     tripRepo,
		itinerarySvc: itinerarySvc,
		weatherSvc:   weatherSvc,
		log:          log.Named("trips"),
		now:          time.Now,
	}
}

func (s *TripService) CreateTrip(ctx context.Context, userID string, req request_models.CreateTripRequest) (*db_models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	trip := &db_models.Trip{
		ID:                uuid.NewString(),
		UserID:            userID,
		Destination:       strings.TrimSpace(req.Destination),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Budget:            req.Budget,
		Participants:      req.Participants,
		NumberOfTravelers: req.NumberOfTravelers,
		CurrentLocation:   req.CurrentLocation,
		Preferences:       req.Preferences,
		Status:            db_models.TripStatusPlanning,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.tripRepo.Save(ctx, trip); err != nil {
		s.log.Error("failed to save trip", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return trip, nil
}

func (s *TripService) ListTrips(ctx context.Context, userID string) ([]db_models.Trip, error) {
	trips, err := s.tripRepo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list trips", zap.String("user_id", userID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return trips, nil
}

func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*db_models.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidPath) {
			return nil, utils.ErrTripNotFound
		}
		s.log.Error("failed to load trip", zap.String("trip_id", tripID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func (s *TripService) UpdateTrip(ctx context.Context, userID, tripID string, req request_models.UpdateTripRequest) (*db_models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if req.Destination != nil {
		trip.Destination = strings.TrimSpace(*req.Destination)
	}
	if req.StartDate != nil {
		trip.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = *req.EndDate
	}
	if req.Budget != nil {
		trip.Budget = req.Budget
	}
	if req.Participants != nil {
		trip.Participants = req.Participants
	}
	if req.NumberOfTravelers != nil {
		trip.NumberOfTravelers = *req.NumberOfTravelers
	}
	if req.CurrentLocation != nil {
		trip.CurrentLocation = req.CurrentLocation
	}
	if req.Preferences != nil {
		trip.Preferences = req.Preferences
	}
	if req.Status != nil {
		status := db_models.TripStatus(*req.Status)
		if !status.Valid() {
			return nil, &request_models.ValidationError{Problems: []string{"unknown status " + *req.Status}}
		}
		trip.Status = status
	}
	if trip.EndDate.Before(trip.StartDate.Time) {
		return nil, &request_models.ValidationError{Problems: []string{"endDate must not be before startDate"}}
	}

	trip.UpdatedAt = s.now().UTC()
	if err := s.tripRepo.Save(ctx, trip); err != nil {
		s.log.Error("failed to update trip", zap.String("trip_id", tripID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return trip, nil
}

func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return err
	}
	if err := s.tripRepo.Delete(ctx, userID, tripID); err != nil {
		s.log.Error("failed to delete trip", zap.String("trip_id", tripID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *TripService) SetStatus(ctx context.Context, userID, tripID string, status db_models.TripStatus) error {
	err := s.tripRepo.UpdateFields(ctx, userID, tripID, map[string]any{
		"status":    status,
		"updatedAt": s.now().UTC(),
	})
	if errors.Is(err, repositories.ErrDocumentNotFound) {
		return utils.ErrTripNotFound
	}
	if err != nil {
		s.log.Error("failed to set trip status", zap.String("trip_id", tripID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *TripService) GenerateItinerary(ctx context.Context, userID, tripID string, req request_models.GenerateItineraryRequest) (*response_models.GenerateItineraryResponse, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	treq := s.tripRequest(ctx, trip, req.Preferences, req.IncludeWeather)

	result, err := s.itinerarySvc.GenerateItinerary(ctx, treq)
	if err != nil {
		return nil, err
	}
	return s.persistItinerary(ctx, trip, result, nil)
}

func (s *TripService) RegenerateItinerary(ctx context.Context, userID, tripID string, req request_models.RegenerateItineraryRequest) (*response_models.GenerateItineraryResponse, error) {
	if len(mergeExcluded(nil, req.ExcludedPlaces)) == 0 {
		return nil, &request_models.ValidationError{Problems: []string{"excludedPlaces must list at least one place"}}
	}
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	treq := s.tripRequest(ctx, trip, req.Preferences, req.IncludeWeather)

	result, err := s.itinerarySvc.RegenerateItinerary(ctx, treq, req.ExcludedPlaces)
	if err != nil {
		return nil, err
	}
	excluded := mergeExcluded(trip.ExcludedPlaces, req.ExcludedPlaces)
	return s.persistItinerary(ctx, trip, result, excluded)
}

// tripRequest builds the pipeline input from the stored trip, request
// preference overrides and, when wanted, the destination's weather.
func (s *TripService) tripRequest(ctx context.Context, trip *db_models.Trip, prefs *request_models.UserPreferences, includeWeather *bool) request_models.TripRequest {
	treq := trip.TripRequest()
	treq.Preferences = mergePreferences(trip.Preferences, prefs)

	wantWeather := s.weatherSvc != nil && s.weatherSvc.Enabled()
	if includeWeather != nil {
		wantWeather = *includeWeather && s.weatherSvc != nil
	}
	if !wantWeather {
		return treq
	}

	weather, err := s.weatherSvc.GetWeatherForTrip(ctx, trip.Destination, trip.StartDate.Time, trip.EndDate.Time)
	if err != nil {
		s.log.Warn("weather unavailable, generating without it",
			zap.String("destination", trip.Destination), zap.Error(err))
		return treq
	}
	treq.Weather = weather
	return treq
}

func (s *TripService) persistItinerary(ctx context.Context, trip *db_models.Trip, result response_models.ItineraryResult, excluded []string) (*response_models.GenerateItineraryResponse, error) {
	now := s.now().UTC()
	meta := db_models.ItineraryMeta{
		UsedFallback: result.UsedFallback,
		ErrorDetail:  result.ErrorDetail,
		Model:        result.Model,
		GeneratedAt:  now,
	}
	status := trip.Status
	if status == db_models.TripStatusPlanning || status == db_models.TripStatusPlanned || status == "" {
		status = db_models.TripStatusPlanned
	}

	fields := map[string]any{
		"itinerary":     result.Itinerary,
		"itineraryMeta": meta,
		"status":        status,
		"updatedAt":     now,
	}
	if excluded != nil {
		fields["excludedPlaces"] = excluded
	}
	if err := s.tripRepo.UpdateFields(ctx, trip.UserID, trip.ID, fields); err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, utils.ErrTripNotFound
		}
		s.log.Error("failed to persist itinerary", zap.String("trip_id", trip.ID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return &response_models.GenerateItineraryResponse{
		TripID:       trip.ID,
		Itinerary:    result.Itinerary,
		UsedFallback: result.UsedFallback,
		ErrorDetail:  result.ErrorDetail,
		Status:       string(status),
	}, nil
}

// mergePreferences overlays the non-empty fields of override on base.
func mergePreferences(base, override *request_models.UserPreferences) *request_models.UserPreferences {
	if override == nil {
		return base
	}
	if base == nil {
		p := *override
		return &p
	}
	merged := *base
	if len(override.Interests) > 0 {
		merged.Interests = override.Interests
	}
	if override.TravelStyle != "" {
		merged.TravelStyle = override.TravelStyle
	}
	if override.BudgetRange != "" {
		merged.BudgetRange = override.BudgetRange
	}
	if override.Accommodation != "" {
		merged.Accommodation = override.Accommodation
	}
	if override.Transportation != "" {
		merged.Transportation = override.Transportation
	}
	if len(override.DietaryRestrictions) > 0 {
		merged.DietaryRestrictions = override.DietaryRestrictions
	}
	return &merged
}
