package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// AccountService provides directory operations over provisioned accounts.
// It implements the Directory interface consumed by the workspace package.
type AccountService struct {
	repo AccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// Provision creates or refreshes an account from an identity provider event
func (s *AccountService) Provision(ctx context.Context, identity, email, name, picture string) (Account, error) {
	if identity == "" {
		return Account{}, errs.New(errs.ErrCodeMissingRequired, "identity is required")
	}
	if email == "" {
		return Account{}, errs.New(errs.ErrCodeMissingRequired, "email is required")
	}

	acct, err := s.repo.UpsertAccount(ctx, Account{
		Identity: identity,
		Email:    strings.ToLower(email),
		Name:     name,
		Picture:  picture,
	})
	if err != nil {
		return Account{}, fmt.Errorf("failed to provision account: %w", err)
	}

	slog.Info("Account provisioned", "identity", acct.Identity, "email", acct.Email)
	return acct, nil
}

// Deprovision removes an account from the directory
func (s *AccountService) Deprovision(ctx context.Context, identity string) error {
	if err := s.repo.DeleteAccount(ctx, identity); err != nil {
		return err
	}
	slog.Info("Account deprovisioned", "identity", identity)
	return nil
}

// Get returns the full account record
func (s *AccountService) Get(ctx context.Context, identity string) (Account, error) {
	return s.repo.GetAccount(ctx, identity)
}

// FindByEmail resolves an email address to a public profile
func (s *AccountService) FindByEmail(ctx context.Context, email string) (Profile, error) {
	acct, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return Profile{}, err
	}
	return acct.Profile(), nil
}

// GetProfile returns the public profile for an identity
func (s *AccountService) GetProfile(ctx context.Context, identity string) (Profile, error) {
	acct, err := s.repo.GetAccount(ctx, identity)
	if err != nil {
		return Profile{}, err
	}
	return acct.Profile(), nil
}
