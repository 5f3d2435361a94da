package db_fx

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/config"
	"tripmate/internal/infra"
	"tripmate/internal/repositories"
)

var Module = fx.Provide(provideDocumentStore)

func provideDocumentStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (repositories.DocumentStore, error) {
	switch cfg.StoreBackend {
	case "postgres":
		db, err := infra.InitPostgresql(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.ClosePostgresql(db, log)
				return nil
			},
		})
		return repositories.NewPostgresStore(db), nil

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client, err := infra.InitMongo(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := repositories.EnsureMongoIndexes(ctx, client, cfg.MongoDatabase); err != nil {
			infra.CloseMongo(ctx, client, log)
			return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.CloseMongo(ctx, client, log)
				return nil
			},
		})
		return repositories.NewMongoStore(client, cfg.MongoDatabase), nil

	default:
		log.Warn("Using the in-memory document store, data is lost on restart")
		return repositories.NewMemoryStore(), nil
	}
}
