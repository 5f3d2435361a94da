package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

type tripFixture struct {
	svc     TripServiceInterface
	repo    repositories.TripRepository
	model   *fakeModel
	weather *fakeWeather
}

func newTripFixture(reply string) *tripFixture {
	repo := repositories.NewTripRepository(repositories.NewMemoryStore())
	model := &fakeModel{reply: reply}
	weather := &fakeWeather{}
	itSvc := NewItineraryService(model, nil, zap.NewNop())
	return &tripFixture{
		svc:     NewTripService(repo, itSvc, weather, zap.NewNop()),
		repo:    repo,
		model:   model,
		weather: weather,
	}
}

func parisCreate() request_models.CreateTripRequest {
	return request_models.CreateTripRequest{
		Destination:       "Paris, France",
		StartDate:         request_models.NewDate(2025, time.June, 1),
		EndDate:           request_models.NewDate(2025, time.June, 5),
		NumberOfTravelers: 2,
	}
}

func TestCreateTripValidation(t *testing.T) {
	f := newTripFixture("")
	budget := 2_000_000.0
	req := request_models.CreateTripRequest{Destination: "P", Budget: &budget}

	_, err := f.svc.CreateTrip(context.Background(), "u1", req)
	var verr *request_models.ValidationError
	if !errors.As(err, &verr) || len(verr.Problems) != 4 {
		t.Fatalf("expected 4 problems, got %v", err)
	}
}

func TestTripCRUD(t *testing.T) {
	ctx := context.Background()
	f := newTripFixture("")

	trip, err := f.svc.CreateTrip(ctx, "u1", parisCreate())
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if trip.ID == "" || trip.Status != db_models.TripStatusPlanning {
		t.Fatalf("trip = %+v", trip)
	}

	if _, err := f.svc.GetTrip(ctx, "u2", trip.ID); !errors.Is(err, utils.ErrTripNotFound) {
		t.Errorf("other user's trip visible: %v", err)
	}

	newEnd := request_models.NewDate(2025, time.May, 20)
	if _, err := f.svc.UpdateTrip(ctx, "u1", trip.ID, request_models.UpdateTripRequest{EndDate: &newEnd}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("date order not re-validated: %v", err)
	}
	bogus := "archived"
	if _, err := f.svc.UpdateTrip(ctx, "u1", trip.ID, request_models.UpdateTripRequest{Status: &bogus}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("unknown status accepted: %v", err)
	}

	dest := "Nice, France"
	updated, err := f.svc.UpdateTrip(ctx, "u1", trip.ID, request_models.UpdateTripRequest{Destination: &dest})
	if err != nil || updated.Destination != dest || updated.NumberOfTravelers != 2 {
		t.Fatalf("UpdateTrip = %+v, %v", updated, err)
	}

	list, err := f.svc.ListTrips(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListTrips = %v, %v", list, err)
	}

	if err := f.svc.DeleteTrip(ctx, "u1", trip.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteTrip(ctx, "u1", trip.ID); !errors.Is(err, utils.ErrTripNotFound) {
		t.Errorf("second delete = %v", err)
	}
}

func TestGenerateItineraryPersists(t *testing.T) {
	ctx := context.Background()
	f := newTripFixture(modelJSON(4, 1, "Louvre"))
	trip, _ := f.svc.CreateTrip(ctx, "u1", parisCreate())

	resp, err := f.svc.GenerateItinerary(ctx, "u1", trip.ID, request_models.GenerateItineraryRequest{})
	if err != nil {
		t.Fatalf("GenerateItinerary: %v", err)
	}
	if resp.UsedFallback || resp.Status != string(db_models.TripStatusPlanned) {
		t.Fatalf("resp = %+v", resp)
	}
	if f.weather.calls != 0 {
		t.Error("weather fetched while disabled")
	}

	stored, _ := f.repo.FindByID(ctx, "u1", trip.ID)
	if stored.Itinerary == nil || len(stored.Itinerary.Days) != 4 {
		t.Fatalf("itinerary not stored: %+v", stored)
	}
	if stored.ItineraryMeta == nil || stored.ItineraryMeta.Model != "fake-model" || stored.Status != db_models.TripStatusPlanned {
		t.Errorf("meta = %+v status = %s", stored.ItineraryMeta, stored.Status)
	}
}

func TestGenerateItineraryWeatherIsOptional(t *testing.T) {
	ctx := context.Background()
	f := newTripFixture(modelJSON(4, 1, ""))
	f.weather.enabled = true
	f.weather.err = errors.New("provider down")
	trip, _ := f.svc.CreateTrip(ctx, "u1", parisCreate())

	resp, err := f.svc.GenerateItinerary(ctx, "u1", trip.ID, request_models.GenerateItineraryRequest{})
	if err != nil || resp.UsedFallback {
		t.Fatalf("weather failure changed the outcome: %+v, %v", resp, err)
	}
	if f.weather.calls != 1 {
		t.Errorf("weather calls = %d", f.weather.calls)
	}

	f.weather.err = nil
	f.weather.summary = &request_models.WeatherSummary{Forecast: []request_models.DailyWeather{
		{Date: "2025-06-01", Temperature: 21, MinTemp: 15, MaxTemp: 25, Condition: "Clear"},
	}}
	resp, err = f.svc.GenerateItinerary(ctx, "u1", trip.ID, request_models.GenerateItineraryRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Itinerary.WeatherInfo == nil {
		t.Error("weather not echoed into itinerary")
	}

	off := false
	_, _ = f.svc.GenerateItinerary(ctx, "u1", trip.ID, request_models.GenerateItineraryRequest{IncludeWeather: &off})
	if f.weather.calls != 2 {
		t.Errorf("includeWeather=false still fetched weather (calls=%d)", f.weather.calls)
	}
}

func TestRegenerateItineraryAccumulatesExclusions(t *testing.T) {
	ctx := context.Background()
	f := newTripFixture(modelJSON(4, 1, ""))
	trip, _ := f.svc.CreateTrip(ctx, "u1", parisCreate())

	if _, err := f.svc.RegenerateItinerary(ctx, "u1", trip.ID, request_models.RegenerateItineraryRequest{ExcludedPlaces: []string{" "}}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("blank exclusions accepted: %v", err)
	}

	for _, places := range [][]string{{"Louvre"}, {"Eiffel Tower", "louvre"}} {
		if _, err := f.svc.RegenerateItinerary(ctx, "u1", trip.ID, request_models.RegenerateItineraryRequest{ExcludedPlaces: places}); err != nil {
			t.Fatalf("RegenerateItinerary: %v", err)
		}
	}
	stored, _ := f.repo.FindByID(ctx, "u1", trip.ID)
	if len(stored.ExcludedPlaces) != 2 || stored.ExcludedPlaces[0] != "Louvre" || stored.ExcludedPlaces[1] != "Eiffel Tower" {
		t.Errorf("excluded = %v", stored.ExcludedPlaces)
	}
}

func TestGenerateKeepsBookedStatus(t *testing.T) {
	ctx := context.Background()
	f := newTripFixture("not json")
	trip, _ := f.svc.CreateTrip(ctx, "u1", parisCreate())
	if err := f.svc.SetStatus(ctx, "u1", trip.ID, db_models.TripStatusBooked); err != nil {
		t.Fatal(err)
	}

	resp, err := f.svc.GenerateItinerary(ctx, "u1", trip.ID, request_models.GenerateItineraryRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.UsedFallback || resp.Status != string(db_models.TripStatusBooked) {
		t.Errorf("resp = %+v", resp)
	}
	if err := f.svc.SetStatus(ctx, "u1", "missing", db_models.TripStatusBooked); !errors.Is(err, utils.ErrTripNotFound) {
		t.Errorf("SetStatus missing = %v", err)
	}
}

func TestMergePreferences(t *testing.T) {
	base := &request_models.UserPreferences{Interests: []string{"art"}, TravelStyle: "relaxed", BudgetRange: "budget"}
	got := mergePreferences(base, &request_models.UserPreferences{TravelStyle: "adventure"})
	if got.TravelStyle != "adventure" || got.BudgetRange != "budget" || len(got.Interests) != 1 {
		t.Errorf("merged = %+v", got)
	}
	if base.TravelStyle != "relaxed" {
		t.Error("base mutated")
	}
	if mergePreferences(base, nil) != base {
		t.Error("nil override should keep base")
	}
}
