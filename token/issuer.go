package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-server/internal/config"
	"github.com/pkg/errors"
)

const saltLength = 16 // bytes of random salt per issued session

// Issuer mints remember-me sessions. Each issuance uses a fresh random salt
// and secret with the configured algorithm and iteration policy; previously
// issued tokens stay valid when the policy changes because every stored hash
// self-describes its parameters.
type Issuer struct {
	repo    RememberMeRepo
	config  config.SecurityConfig
	nowTime func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithIssuerNowTime sets the now time function (primarily for testing)
func WithIssuerNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

// NewIssuer creates a new remember-me session issuer.
func NewIssuer(repo RememberMeRepo, cfg config.SecurityConfig, options ...IssuerOption) (*Issuer, error) {
	if repo == nil {
		return nil, errors.New("[NewIssuer] RememberMe repo is required")
	}
	if cfg == nil {
		return nil, errors.New("[NewIssuer] security config is required")
	}

	issuer := &Issuer{
		repo:    repo,
		config:  cfg,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(issuer)
	}
	return issuer, nil
}

// Issue mints a new remember-me session for accountID, persists the hashed
// record and returns the cookie value to hand to the client.
func (i *Issuer) Issue(ctx context.Context, accountID, payload string) (string, *RememberMeRecord, error) {
	saltBytes := make([]byte, saltLength)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", nil, errors.Wrap(err, "[Issuer.Issue] rand.Read")
	}

	rememberMe := &RememberMe{
		Algorithm:  i.config.GetHashAlgorithm(),
		Salt:       hex.EncodeToString(saltBytes),
		Iterations: i.config.GetHashIterations(),
		Secret:     uuid.New().String(),
	}

	hash, err := rememberMe.StorageHash()
	if err != nil {
		return "", nil, errors.Wrap(err, "[Issuer.Issue] StorageHash")
	}

	now := i.nowTime()
	record := &RememberMeRecord{
		Hash:      hash,
		AccountID: accountID,
		Payload:   payload,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.config.GetRememberMeTTL()),
	}
	if err := i.repo.Save(ctx, record); err != nil {
		return "", nil, errors.Wrap(err, "[Issuer.Issue] repo.Save")
	}

	return rememberMe.CookieValue(), record, nil
}

// Validate resolves a presented cookie value to a live remember-me record.
//
// A malformed cookie (wrong field count) fails with ErrMalformedToken. Any
// other problem - unknown hash, expired record, undecodable parameters, a
// store error - yields (nil, nil): the caller simply isn't signed in.
func (i *Issuer) Validate(ctx context.Context, cookieValue string) (*RememberMeRecord, error) {
	rememberMe, err := ParseRememberMe(cookieValue)
	if err != nil {
		if errors.Is(err, ErrMalformedToken) {
			return nil, err
		}
		return nil, nil
	}

	hash, err := rememberMe.StorageHash()
	if err != nil {
		return nil, nil
	}

	record, err := i.repo.Get(ctx, hash)
	if err != nil {
		return nil, nil
	}
	if !record.Valid(i.nowTime()) {
		return nil, nil
	}
	return record, nil
}
