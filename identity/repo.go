package identity

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrLinkNotFound is returned by a LinkRepo when no link exists for the
	// (strategy, externalID) pair.
	ErrLinkNotFound = errors.New("external identity link not found")

	// ErrLinkExists is returned by LinkRepo.Create when the pair is already
	// bound - including when a concurrent request won the creation race. The
	// caller recovers by re-resolving the link as found.
	ErrLinkExists = errors.New("external identity link already exists")
)

// Link is the durable binding between an external identity and an account.
// A (strategy, externalID) pair binds to exactly one account forever: links
// are created at most once and never updated.
type Link struct {
	Strategy   string
	ExternalID string
	AccountID  string
	Email      string
	FirstName  string
	LastName   string
	Profile    map[string]any
	CreatedAt  time.Time
}

// LinkRepo manages storage of external identity links. Implementations must
// enforce uniqueness of (strategy, externalID) at creation time; that
// constraint is the sole arbiter of racing requests.
type LinkRepo interface {
	Find(ctx context.Context, strategy, externalID string) (*Link, error)
	Create(ctx context.Context, link *Link) error
}
