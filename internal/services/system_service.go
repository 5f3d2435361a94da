package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
)

// ModelInfo describes the configured model client.
type ModelInfo interface {
	Provider() string
	SelectedModel() string
}

type SystemServiceInterface interface {
	Status(ctx context.Context) response_models.SystemStatus
}

type SystemService struct {
	store   repositories.DocumentStore
	model   ModelInfo
	log     *zap.Logger
	started time.Time
}

// NewSystemService takes a nil model when itinerary generation runs
// without a provider.
func NewSystemService(store repositories.DocumentStore, model ModelInfo, log *zap.Logger) SystemServiceInterface {
	return &SystemService{
		store:   store,
		model:   model,
		log:     log.Named("system"),
		started: time.Now(),
	}
}

func (s *SystemService) Status(ctx context.Context) response_models.SystemStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := response_models.SystemStatus{
		Status:       "ok",
		Store:        s.store.Backend(),
		StoreHealthy: true,
		AIProvider:   "none",
		Uptime:       time.Since(s.started).Round(time.Second).String(),
	}
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("store ping failed", zap.Error(err))
		status.Status = "degraded"
		status.StoreHealthy = false
	}
	if s.model != nil {
		status.AIProvider = s.model.Provider()
		status.SelectedModel = s.model.SelectedModel()
	}
	return status
}
