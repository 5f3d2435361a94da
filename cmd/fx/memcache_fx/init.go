package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/config"
	"tripmate/internal/infra"
	mem "tripmate/pkg/memcache"
)

const purgeInterval = time.Minute

var Module = fx.Provide(provideCache)

// provideCache prefers Redis and falls back to the in-process cache when
// Redis is not configured or not reachable.
func provideCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) mem.Cache {
	client, err := infra.InitRedis(context.Background(), cfg, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-process cache", zap.Error(err))
	}
	if client != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return mem.NewRedisCache(client, cfg.RedisPrefix)
	}

	cache := mem.NewTTLCache()
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(purgeInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := cache.Purge(); n > 0 {
							log.Debug("purged expired cache entries", zap.Int("count", n))
						}
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
	return cache
}
