package prompt_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/config"
	"tripmate/internal/services"
	"tripmate/pkg/llm"
)

var Module = fx.Provide(
	ProvideModelClient,
	provideModelCaller,
	provideModelInfo,
	provideItineraryService,
)

// ProvideModelClient returns a nil client when AI_PROVIDER=none.
func ProvideModelClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *llm.Client {
	client, closeFn := NewModelClient(context.Background(), cfg, log)
	if closeFn != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closeFn()
			},
		})
	}
	return client
}

// NewModelClient builds the client for the configured provider. A missing
// key or a broken backend yields a disabled client so that itineraries
// fall back to the template instead of failing startup.
func NewModelClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*llm.Client, func() error) {
	settings := llm.DefaultGenerationSettings()
	if cfg.AITemperature > 0 {
		settings.Temperature = cfg.AITemperature
	}
	if cfg.AIMaxOutputTokens > 0 {
		settings.MaxOutputTokens = cfg.AIMaxOutputTokens
	}

	var (
		gen     llm.Generator
		closeFn func() error
		err     error
	)
	switch cfg.AIProvider {
	case llm.ProviderNone:
		log.Info("Itinerary model disabled, every itinerary uses the template generator")
		return nil, nil
	case llm.ProviderOpenAI:
		var g *llm.OpenAIGenerator
		if g, err = llm.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, settings); err == nil {
			gen = g
		}
	default:
		var g *llm.GeminiGenerator
		if g, err = llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, settings); err == nil {
			gen, closeFn = g, g.Close
		}
	}
	if err != nil {
		log.Error("itinerary model unavailable", zap.String("provider", cfg.AIProvider), zap.Error(err))
		return llm.NewDisabledClient(cfg.AIProvider, err, log), nil
	}

	log.Info("Itinerary model configured",
		zap.String("provider", cfg.AIProvider),
		zap.String("preferred_model", cfg.AIModel))
	return llm.NewClient(gen, llm.Options{
		Candidates:     llm.CandidateModels(cfg.AIProvider, cfg.AIModel),
		MaxAttempts:    cfg.AIMaxAttempts,
		BackoffBase:    cfg.AIBackoffBase,
		CallTimeout:    cfg.AICallTimeout,
		InitRetryAfter: cfg.AIInitRetryAfter,
	}, log), closeFn
}

// The two providers below must hand out an untyped nil when the client
// is nil so that services can test for it.

func provideModelCaller(client *llm.Client) services.ModelCaller {
	if client == nil {
		return nil
	}
	return client
}

func provideModelInfo(client *llm.Client) services.ModelInfo {
	if client == nil {
		return nil
	}
	return client
}

func provideItineraryService(model services.ModelCaller, log *zap.Logger) services.ItineraryServiceInterface {
	return services.NewItineraryService(model, nil, log)
}
