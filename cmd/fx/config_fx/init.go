package config_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/config"
	"tripmate/pkg/logger"
)

var Module = fx.Provide(config.Load, provideLogger)

// provideLogger also installs the logger as zap's global so the HTTP
// error helpers in pkg/utils log through it.
func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, sync, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sync()
			return nil
		},
	})
	return log, nil
}
