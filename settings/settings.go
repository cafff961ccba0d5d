package settings

import "context"

// Settings holds server-level settings kept in the datastore rather than the
// environment, so operators can change them without a redeploy.
type Settings struct {
	HelpEmail string `json:"help_email,omitempty"`
}

type Repo interface {
	Get(ctx context.Context) (*Settings, error)
}
