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

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountLoginResponse, error)
	VerifyToken(ctx context.Context, token string) (*utils.Identity, error)
	GetOrCreateProfile(ctx context.Context, identity utils.Identity) (*db_models.Account, error)
	UpdateProfile(ctx context.Context, userID string, request request_models.UpdateProfileRequest) (*db_models.Account, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	tokens      *utils.TokenManager
	log         *zap.Logger
	now         func() time.Time
}

func NewAccountService(accountRepo repositories.AccountRepository, tokens *utils.TokenManager, log *zap.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		tokens:      tokens,
		log:         log.Named("accounts"),
		now:         time.Now,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		a.log.Error("failed to look up account", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account == nil || account.PasswordHash == "" {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	resp, err := a.issueToken(account)
	if err != nil {
		return nil, err
	}
	a.log.Debug("login succeeded", zap.String("user_id", account.ID), zap.Duration("took", time.Since(startTime)))
	return resp, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountLoginResponse, error) {
	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		a.log.Error("failed to hash password", zap.Error(err))
		return nil, utils.ErrServiceUnavailable
	}

	now := a.now().UTC()
	newAccount := &db_models.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(request.DisplayName),
		Email:        strings.ToLower(strings.TrimSpace(request.Email)),
		PasswordHash: hashedPassword,
		Preferences:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.accountRepo.Insert(ctx, newAccount); err != nil {
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			return nil, err
		}
		a.log.Error("failed to create account", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return a.issueToken(newAccount)
}

func (a *AccountService) issueToken(account *db_models.Account) (*response_models.AccountLoginResponse, error) {
	token, err := a.tokens.CreateToken(account.ID, account.Email)
	if err != nil {
		a.log.Error("failed to sign token", zap.Error(err))
		return nil, utils.ErrServiceUnavailable
	}
	return &response_models.AccountLoginResponse{
		Token:     token,
		ExpiresIn: int64(a.tokens.TTL().Seconds()),
	}, nil
}

func (a *AccountService) VerifyToken(ctx context.Context, token string) (*utils.Identity, error) {
	return a.tokens.Verify(ctx, token)
}

// GetOrCreateProfile returns the stored profile, creating a minimal one on
// first access by a verified identity.
func (a *AccountService) GetOrCreateProfile(ctx context.Context, identity utils.Identity) (*db_models.Account, error) {
	account, err := a.accountRepo.FindById(ctx, identity.UID)
	if err != nil {
		a.log.Error("failed to load profile", zap.String("user_id", identity.UID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if account != nil {
		return account, nil
	}

	now := a.now().UTC()
	account = &db_models.Account{
		ID:          identity.UID,
		Name:        displayNameFromEmail(identity.Email),
		Email:       strings.ToLower(identity.Email),
		Preferences: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = a.accountRepo.Insert(ctx, account)
	if errors.Is(err, utils.ErrEmailAlreadyExists) {
		// The email belongs to another local account; keep the profile
		// without claiming the index.
		err = a.accountRepo.Save(ctx, account)
	}
	if err != nil {
		a.log.Error("failed to create profile", zap.String("user_id", identity.UID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return account, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, userID string, request request_models.UpdateProfileRequest) (*db_models.Account, error) {
	account, err := a.accountRepo.FindById(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, &request_models.ValidationError{Problems: []string{"name must not be blank"}}
		}
		account.Name = name
	}
	if request.Preferences != nil {
		account.Preferences = cleanTags(request.Preferences)
	}
	account.UpdatedAt = a.now().UTC()

	if err := a.accountRepo.Save(ctx, account); err != nil {
		a.log.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return account, nil
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Traveler"
	}
	return local
}

func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
