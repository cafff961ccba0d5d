package fakesettingsrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-identity-server/settings"
)

var _ settings.Repo = (*FakeSettingsRepo)(nil)

type FakeSettingsRepo struct {
	settings settings.Settings
	lock     sync.RWMutex
}

func NewFakeSettingsRepo() *FakeSettingsRepo {
	return &FakeSettingsRepo{}
}

func (sr *FakeSettingsRepo) Get(_ context.Context) (*settings.Settings, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	s := sr.settings
	return &s, nil
}

// SetHelpEmail updates the stored help email (for tests).
func (sr *FakeSettingsRepo) SetHelpEmail(email string) {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.settings.HelpEmail = email
}
