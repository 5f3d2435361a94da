package controllers_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/api/controllers"
	"tripmate/internal/repositories"
	"tripmate/internal/services"
)

// Module wires the controllers that do not belong to a domain module.
var Module = fx.Options(
	fx.Provide(provideSystemService),
	fx.Provide(controllers.NewSystemController))

func provideSystemService(store repositories.DocumentStore, model services.ModelInfo, log *zap.Logger) services.SystemServiceInterface {
	return services.NewSystemService(store, model, log)
}
