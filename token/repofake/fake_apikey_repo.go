package tokenrepofake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-identity-server/token"
)

var _ token.APIKeyRepo = (*FakeAPIKeyRepo)(nil)

type FakeAPIKeyRepo struct {
	keys map[string]*token.APIKey // account ID to key
	lock sync.RWMutex
}

func NewFakeAPIKeyRepo() *FakeAPIKeyRepo {
	return &FakeAPIKeyRepo{
		keys: make(map[string]*token.APIKey),
	}
}

func (kr *FakeAPIKeyRepo) GetByAccount(_ context.Context, accountID string) (*token.APIKey, error) {
	kr.lock.RLock()
	defer kr.lock.RUnlock()

	key, ok := kr.keys[accountID]
	if !ok {
		return nil, token.ErrAPIKeyNotFound
	}
	return key, nil
}

func (kr *FakeAPIKeyRepo) Save(_ context.Context, key *token.APIKey) error {
	kr.lock.Lock()
	defer kr.lock.Unlock()

	kr.keys[key.AccountID] = key
	return nil
}
