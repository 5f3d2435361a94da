package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"tripmate/internal/models/db_models"
)

type TripRepository interface {
	Save(ctx context.Context, trip *db_models.Trip) error
	FindByID(ctx context.Context, userID, tripID string) (*db_models.Trip, error)
	ListByUser(ctx context.Context, userID string) ([]db_models.Trip, error)
	UpdateFields(ctx context.Context, userID, tripID string, fields map[string]any) error
	Delete(ctx context.Context, userID, tripID string) error
}

type tripRepository struct {
	store DocumentStore
}

func NewTripRepository(store DocumentStore) TripRepository {
	return &tripRepository{store: store}
}

func tripPath(userID, tripID string) (string, error) {
	return JoinPath("trips", userID, tripID)
}

func (r *tripRepository) Save(ctx context.Context, trip *db_models.Trip) error {
	p, err := tripPath(trip.UserID, trip.ID)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, p, trip)
}

// FindByID returns nil, nil when the trip does not exist.
func (r *tripRepository) FindByID(ctx context.Context, userID, tripID string) (*db_models.Trip, error) {
	p, err := tripPath(userID, tripID)
	if err != nil {
		return nil, err
	}
	var trip db_models.Trip
	found, err := r.store.Get(ctx, p, &trip)
	if err != nil || !found {
		return nil, err
	}
	return &trip, nil
}

// ListByUser returns the user's trips, newest first.
func (r *tripRepository) ListByUser(ctx context.Context, userID string) ([]db_models.Trip, error) {
	p, err := JoinPath("trips", userID)
	if err != nil {
		return nil, err
	}
	children, err := r.store.Children(ctx, p)
	if err != nil {
		return nil, err
	}

	trips := make([]db_models.Trip, 0, len(children))
	for id, raw := range children {
		var t db_models.Trip
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("failed to decode trip %s: %w", id, err)
		}
		trips = append(trips, t)
	}
	sort.Slice(trips, func(i, j int) bool {
		if trips[i].CreatedAt.Equal(trips[j].CreatedAt) {
			return trips[i].ID < trips[j].ID
		}
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips, nil
}

func (r *tripRepository) UpdateFields(ctx context.Context, userID, tripID string, fields map[string]any) error {
	p, err := tripPath(userID, tripID)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, p, fields)
}

func (r *tripRepository) Delete(ctx context.Context, userID, tripID string) error {
	p, err := tripPath(userID, tripID)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, p)
}
