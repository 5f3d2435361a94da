package repositories

import (
	"context"
	"strings"

	"tripmate/internal/models/db_models"
	"tripmate/pkg/utils"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	Save(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id string) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
}

type accountRepository struct {
	store DocumentStore
}

func NewAccountRepository(store DocumentStore) AccountRepository {
	return &accountRepository{
		store: store,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Insert stores a new account and claims its email in the index.
func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	email := normalizeEmail(account.Email)
	if email != "" {
		existing, err := a.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return utils.ErrEmailAlreadyExists
		}
	}

	if err := a.Save(ctx, account); err != nil {
		return err
	}
	if email == "" {
		return nil
	}
	indexPath, err := JoinPath("user_emails", email)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, indexPath, db_models.EmailIndex{AccountID: account.ID})
}

func (a *accountRepository) Save(ctx context.Context, account *db_models.Account) error {
	p, err := JoinPath("users", account.ID)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, p, account)
}

func (a *accountRepository) FindById(ctx context.Context, id string) (*db_models.Account, error) {
	p, err := JoinPath("users", id)
	if err != nil {
		return nil, err
	}

	var account db_models.Account
	found, err := a.store.Get(ctx, p, &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	indexPath, err := JoinPath("user_emails", normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	var idx db_models.EmailIndex
	found, err := a.store.Get(ctx, indexPath, &idx)
	if err != nil || !found {
		return nil, err
	}
	return a.FindById(ctx, idx.AccountID)
}
