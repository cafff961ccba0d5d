package accounts

import (
	"context"

	"github.com/pkg/errors"
)

// ErrAccountNotFound is returned by a Repo when no account matches.
var ErrAccountNotFound = errors.New("account not found")

type Repo interface {
	// Create persists a new account and returns its ID. The repo assigns the
	// ID when account.ID is empty.
	Create(ctx context.Context, account *Account) (string, error)

	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByEmail resolves an account by its primary email address, failing
	// ErrAccountNotFound when no account has registered it.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// IsBanned reports whether the account is barred from signing in.
	IsBanned(ctx context.Context, id string) (bool, error)
}
