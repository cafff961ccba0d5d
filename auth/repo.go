package auth

import (
	"github.com/jrsteele09/go-identity-server/accounts"
	"github.com/jrsteele09/go-identity-server/identity"
	"github.com/jrsteele09/go-identity-server/settings"
)

// Repos holds all repository dependencies for the ReconciliationService.
// Together with the session issuer they form the capability set the protocol
// consumes; the datastore behind them is the sole concurrency arbiter.
type Repos struct {
	Accounts accounts.Repo     // Account storage and ban flags
	Links    identity.LinkRepo // External identity links
	Settings settings.Repo     // Server settings (help email)
}
