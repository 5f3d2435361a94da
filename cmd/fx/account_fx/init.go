package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/api/controllers"
	"tripmate/internal/config"
	"tripmate/internal/repositories"
	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

var Module = fx.Provide(
	provideTokenManager,
	provideIdentityVerifier,
	provideAccountRepo,
	provideAccountService,
	controllers.NewAccountController,
)

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry())
}

func provideIdentityVerifier(tokens *utils.TokenManager) utils.IdentityVerifier {
	return tokens
}

func provideAccountRepo(store repositories.DocumentStore) repositories.AccountRepository {
	return repositories.NewAccountRepository(store)
}

func provideAccountService(accountRepo repositories.AccountRepository, tokens *utils.TokenManager, log *zap.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, tokens, log)
}
