package fakeaccountrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-server/accounts"
)

var _ accounts.Repo = (*FakeAccountRepo)(nil)

type FakeAccountRepo struct {
	accounts map[string]*accounts.Account
	emailIds map[string]string // email to account id
	lock     sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		accounts: make(map[string]*accounts.Account),
		emailIds: make(map[string]string),
	}
}

func (ar *FakeAccountRepo) Create(_ context.Context, account *accounts.Account) (string, error) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	ar.accounts[account.ID] = account
	if account.Email != "" {
		ar.emailIds[account.Email] = account.ID
	}
	return account.ID, nil
}

func (ar *FakeAccountRepo) GetByID(_ context.Context, id string) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	if _, ok := ar.accounts[id]; !ok {
		return nil, accounts.ErrAccountNotFound
	}
	return ar.accounts[id], nil
}

func (ar *FakeAccountRepo) GetByEmail(_ context.Context, email string) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	if _, ok := ar.emailIds[email]; !ok {
		return nil, accounts.ErrAccountNotFound
	}
	return ar.accounts[ar.emailIds[email]], nil
}

func (ar *FakeAccountRepo) IsBanned(_ context.Context, id string) (bool, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	account, ok := ar.accounts[id]
	if !ok {
		return false, accounts.ErrAccountNotFound
	}
	return account.Banned, nil
}

// SetBanned flips the ban flag (for tests).
func (ar *FakeAccountRepo) SetBanned(id string, banned bool) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if account, ok := ar.accounts[id]; ok {
		account.Banned = banned
	}
}
