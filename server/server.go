package server

import (
	"net/http"
	"sync"

	"github.com/jrsteele09/go-identity-server/auth"
	"github.com/jrsteele09/go-identity-server/internal/config"
	"github.com/jrsteele09/go-identity-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server is the HTTP boundary around the reconciliation protocol. It owns
// cookie plumbing and the per-strategy OIDC handshakes; everything
// security-relevant happens in the auth package.
type Server struct {
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	repos      auth.Repos
	reconciler *auth.ReconciliationService

	strategyOidc     map[string]OidcConfig
	strategyOidcLock sync.RWMutex
}

func New(cfg config.Config, repos auth.Repos, rememberMeRepo token.RememberMeRepo, apiKeyRepo token.APIKeyRepo) (*Server, error) {
	issuer, err := token.NewIssuer(rememberMeRepo, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create issuer")
	}

	apiKeyManager, err := token.NewAPIKeyManager(apiKeyRepo, token.NewHMACSigner(cfg.GetAPIKeySecret()))
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create api key manager")
	}

	reconciler, err := auth.NewReconciliationService(repos, issuer,
		auth.WithAPIKeyManager(apiKeyManager),
		auth.WithLogger(log.Logger),
		auth.WithHelpEmailFallback(cfg.GetHelpEmail()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create reconciliation service")
	}

	s := &Server{
		mux:          http.NewServeMux(),
		config:       cfg,
		repos:        repos,
		reconciler:   reconciler,
		strategyOidc: make(map[string]OidcConfig),
	}
	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) initRoutes() {
	s.RegisterRouteFunc(RouteExternalLogin, s.ExternalLoginHandler())
	s.RegisterRouteFunc(RouteExternalCallback, s.ExternalCallbackHandler())
	s.RegisterRouteFunc(RouteAPIKeyRequest, s.APIKeyRequestHandler())
	s.RegisterRouteFunc(RouteHealth, s.HealthHandler())
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		log.Info().Str("route", route).Msg("registered")
	}
}

// Reconciler exposes the service for tests and embedding callers.
func (s *Server) Reconciler() *auth.ReconciliationService {
	return s.reconciler
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}
