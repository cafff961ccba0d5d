package tokenrepofake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-identity-server/token"
)

var _ token.RememberMeRepo = (*FakeRememberMeRepo)(nil)

type FakeRememberMeRepo struct {
	records map[string]*token.RememberMeRecord
	lock    sync.RWMutex
}

func NewFakeRememberMeRepo() *FakeRememberMeRepo {
	return &FakeRememberMeRepo{
		records: make(map[string]*token.RememberMeRecord),
	}
}

func (rr *FakeRememberMeRepo) Get(_ context.Context, hash string) (*token.RememberMeRecord, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	record, ok := rr.records[hash]
	if !ok {
		return nil, token.ErrRememberMeNotFound
	}
	return record, nil
}

func (rr *FakeRememberMeRepo) Save(_ context.Context, record *token.RememberMeRecord) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	rr.records[record.Hash] = record
	return nil
}

// Len reports the number of stored records (for tests).
func (rr *FakeRememberMeRepo) Len() int {
	rr.lock.RLock()
	defer rr.lock.RUnlock()
	return len(rr.records)
}
