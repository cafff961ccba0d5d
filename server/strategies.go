package server

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// OidcConfig bundles the handshake machinery for one strategy.
type OidcConfig struct {
	OidcProvider *oidc.Provider
	OAuth2Config *oauth2.Config
	OidcVerifier *oidc.IDTokenVerifier
}

// getOidcConfigForStrategy lazily builds and caches the OIDC configuration
// for a strategy from its configured issuer and client credentials.
func (s *Server) getOidcConfigForStrategy(ctx context.Context, strategy string) (OidcConfig, error) {
	s.strategyOidcLock.RLock()
	cached, exists := s.strategyOidc[strategy]
	s.strategyOidcLock.RUnlock()
	if exists {
		return cached, nil
	}

	issuer := s.config.GetStrategyIssuer(strategy)
	clientID := s.config.GetStrategyClientID(strategy)
	if issuer == "" || clientID == "" {
		return OidcConfig{}, errors.Errorf("[server getOidcConfigForStrategy] strategy %q is not configured", strategy)
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return OidcConfig{}, errors.Wrap(err, "[server getOidcConfigForStrategy] oidc.NewProvider")
	}

	oidcConfig := OidcConfig{
		OidcProvider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: s.config.GetStrategyClientSecret(strategy),
			Endpoint:     provider.Endpoint(),
			RedirectURL:  s.config.GetBaseURL() + RouteExternalCallback,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		OidcVerifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}

	s.strategyOidcLock.Lock()
	s.strategyOidc[strategy] = oidcConfig
	s.strategyOidcLock.Unlock()

	return oidcConfig, nil
}
