package account

import (
	"context"
	"time"
)

// Account represents one provisioned account in the directory.
// Identity is the opaque token issued by the external identity provider;
// nothing in this service assumes any internal structure for it.
type Account struct {
	Identity  string    `json:"identity"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the public subset of an account used to decorate listings
type Profile struct {
	Identity string `json:"identity"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// Profile returns the public view of an account
func (a Account) Profile() Profile {
	return Profile{
		Identity: a.Identity,
		Email:    a.Email,
		Name:     a.Name,
		Picture:  a.Picture,
	}
}

// AccountRepository defines the interface for account storage operations
type AccountRepository interface {
	UpsertAccount(ctx context.Context, acct Account) (Account, error)
	GetAccount(ctx context.Context, identity string) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	DeleteAccount(ctx context.Context, identity string) error
}

// Directory is the lookup surface other packages consume: resolve an email to
// an identity and fetch public profiles for display.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (Profile, error)
	GetProfile(ctx context.Context, identity string) (Profile, error)
}
