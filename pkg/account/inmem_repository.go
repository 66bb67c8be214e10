package account

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// InMemAccountRepository implements AccountRepository using an in-memory map
type InMemAccountRepository struct {
	accounts map[string]Account
	mu       sync.Mutex
}

// NewInMemAccountRepository creates a new in-memory account repository
func NewInMemAccountRepository() *InMemAccountRepository {
	return &InMemAccountRepository{
		accounts: make(map[string]Account),
	}
}

// UpsertAccount inserts or refreshes an account in memory
func (r *InMemAccountRepository) UpsertAccount(ctx context.Context, acct Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	acct.Email = strings.ToLower(acct.Email)
	acct.UpdatedAt = now

	if existing, ok := r.accounts[acct.Identity]; ok {
		acct.CreatedAt = existing.CreatedAt
	} else if acct.CreatedAt.IsZero() {
		acct.CreatedAt = now
	}

	r.accounts[acct.Identity] = acct
	slog.Debug("Account upserted", "identity", acct.Identity)
	return acct, nil
}

// GetAccount retrieves an account by its identity token
func (r *InMemAccountRepository) GetAccount(ctx context.Context, identity string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.accounts[identity]
	if !ok {
		return Account{}, errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", identity)
	}
	return acct, nil
}

// GetAccountByEmail retrieves an account by email (case insensitive)
func (r *InMemAccountRepository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(email)
	for _, acct := range r.accounts {
		if acct.Email == email {
			return acct, nil
		}
	}
	return Account{}, errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", email)
}

// DeleteAccount removes an account from memory
func (r *InMemAccountRepository) DeleteAccount(ctx context.Context, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[identity]; !ok {
		return errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", identity)
	}
	delete(r.accounts, identity)
	return nil
}
