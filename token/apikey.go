package token

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrAPIKeyNotFound is returned by an APIKeyRepo when an account has no key.
var ErrAPIKeyNotFound = errors.New("api key not found")

// APIKey is an account-scoped key handed to programmatic clients that
// completed the API-key exchange side protocol.
type APIKey struct {
	AccountID string
	Key       string
	CreatedAt time.Time
}

// APIKeyRepo manages server-side storage of account API keys.
type APIKeyRepo interface {
	GetByAccount(ctx context.Context, accountID string) (*APIKey, error)
	Save(ctx context.Context, key *APIKey) error
}

// APIKeyManager resolves or generates account API keys. Keys are HS256 JWTs
// carrying the account ID and a unique jti, so they can be introspected
// without a store round trip.
type APIKeyManager struct {
	repo    APIKeyRepo
	signer  Signer
	nowTime func() time.Time
}

// NewAPIKeyManager creates a new API key manager.
func NewAPIKeyManager(repo APIKeyRepo, signer Signer) (*APIKeyManager, error) {
	if repo == nil {
		return nil, errors.New("[NewAPIKeyManager] APIKey repo is required")
	}
	if signer == nil {
		return nil, errors.New("[NewAPIKeyManager] signer is required")
	}
	return &APIKeyManager{
		repo:    repo,
		signer:  signer,
		nowTime: time.Now,
	}, nil
}

// Exchange returns the account's API key, generating and persisting one when
// none exists. Absence of a key is never a failure.
func (m *APIKeyManager) Exchange(ctx context.Context, accountID string) (string, error) {
	existing, err := m.repo.GetByAccount(ctx, accountID)
	if err == nil {
		return existing.Key, nil
	}
	if !errors.Is(err, ErrAPIKeyNotFound) {
		return "", errors.Wrap(err, "[APIKeyManager.Exchange] repo.GetByAccount")
	}

	now := m.nowTime()
	signed, err := m.signer.Sign(jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"jti": uuid.New().String(),
	})
	if err != nil {
		return "", errors.Wrap(err, "[APIKeyManager.Exchange] signer.Sign")
	}

	key := &APIKey{
		AccountID: accountID,
		Key:       signed,
		CreatedAt: now,
	}
	if err := m.repo.Save(ctx, key); err != nil {
		return "", errors.Wrap(err, "[APIKeyManager.Exchange] repo.Save")
	}
	return signed, nil
}

// Verify checks an API key's signature and returns the account it was minted
// for, without a store round trip.
func (m *APIKeyManager) Verify(key string) (string, error) {
	parsed, err := jwt.Parse(key, m.signer.GetVerificationKey)
	if err != nil {
		return "", errors.Wrap(err, "[APIKeyManager.Verify] jwt.Parse")
	}
	accountID, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", errors.Wrap(err, "[APIKeyManager.Verify] GetSubject")
	}
	return accountID, nil
}
