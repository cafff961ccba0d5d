package fakelinkrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-identity-server/identity"
)

var _ identity.LinkRepo = (*FakeLinkRepo)(nil)

type FakeLinkRepo struct {
	links map[string]*identity.Link // strategy+externalID to link
	lock  sync.RWMutex
}

func NewFakeLinkRepo() *FakeLinkRepo {
	return &FakeLinkRepo{
		links: make(map[string]*identity.Link),
	}
}

func (lr *FakeLinkRepo) Find(_ context.Context, strategy, externalID string) (*identity.Link, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	link, ok := lr.links[linkKey(strategy, externalID)]
	if !ok {
		return nil, identity.ErrLinkNotFound
	}
	return link, nil
}

func (lr *FakeLinkRepo) Create(_ context.Context, link *identity.Link) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	key := linkKey(link.Strategy, link.ExternalID)
	if _, ok := lr.links[key]; ok {
		return identity.ErrLinkExists
	}
	lr.links[key] = link
	return nil
}

func linkKey(strategy, externalID string) string {
	return strategy + "\x00" + externalID
}
