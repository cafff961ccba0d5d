package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-identity-server/identity"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// authState is carried through the handshake in the state cookie.
type authState struct {
	State    string `json:"state"`
	Nonce    string `json:"nonce"`
	Strategy string `json:"strategy"`
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// ExternalLoginHandler starts the handshake for ?strategy=<name>, redirecting
// the user agent to the provider's authorization endpoint.
func (s *Server) ExternalLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		strategy := r.FormValue("strategy")
		if _, err := identity.ExtractorFor(strategy); err != nil {
			http.Error(w, fmt.Sprintf("Unknown strategy: %s", strategy), http.StatusBadRequest)
			return
		}

		oidcConfig, err := s.getOidcConfigForStrategy(r.Context(), strategy)
		if err != nil {
			http.Error(w, fmt.Sprintf("Strategy not available: %v", err), http.StatusBadRequest)
			return
		}

		state := authState{
			State:    generateRandomString(24),
			Nonce:    generateRandomString(24),
			Strategy: strategy,
		}
		encoded, err := json.Marshal(state)
		if err != nil {
			http.Error(w, "Failed to create login state", http.StatusInternalServerError)
			return
		}
		s.setAuthStateCookie(w, r, base64.RawURLEncoding.EncodeToString(encoded))

		authURL := oidcConfig.OAuth2Config.AuthCodeURL(state.State,
			oauth2.SetAuthURLParam("nonce", state.Nonce))
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// APIKeyRequestHandler drops a fresh API-key request cookie and forwards to
// the external-login handshake, carrying the strategy query through.
func (s *Server) APIKeyRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.SetAPIKeyRequestCookie(w, r, generateRandomString(24))
		http.Redirect(w, r, RouteExternalLogin+"?"+r.URL.RawQuery, http.StatusFound)
	}
}

// ExternalCallbackHandler receives the provider redirect, verifies the
// handshake, normalizes the profile into an assertion and hands it to the
// reconciler. Supports both GET (query params) and POST (form_post).
func (s *Server) ExternalCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")
		errorDesc := r.FormValue("error_description")

		if errorParam != "" {
			http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errorParam, errorDesc), http.StatusBadRequest)
			return
		}
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		pending, err := s.authStateFromRequest(r)
		if err != nil || pending.State != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		s.clearAuthStateCookie(w)

		oidcConfig, err := s.getOidcConfigForStrategy(r.Context(), pending.Strategy)
		if err != nil {
			http.Error(w, fmt.Sprintf("Strategy not available: %v", err), http.StatusBadRequest)
			return
		}

		oauth2Token, err := oidcConfig.OAuth2Config.Exchange(r.Context(), code)
		if err != nil {
			http.Error(w, fmt.Sprintf("Token exchange failed: %v", err), http.StatusInternalServerError)
			return
		}

		rawIDToken, ok := oauth2Token.Extra("id_token").(string)
		if !ok {
			http.Error(w, "No ID token in response", http.StatusInternalServerError)
			return
		}
		idToken, err := oidcConfig.OidcVerifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			http.Error(w, fmt.Sprintf("ID token verification failed: %v", err), http.StatusInternalServerError)
			return
		}

		var profile map[string]any
		if err := idToken.Claims(&profile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to extract claims: %v", err), http.StatusInternalServerError)
			return
		}
		if nonce, _ := profile["nonce"].(string); nonce != pending.Nonce {
			http.Error(w, "Invalid nonce", http.StatusUnauthorized)
			return
		}

		extractor, err := identity.ExtractorFor(pending.Strategy)
		if err != nil {
			http.Error(w, fmt.Sprintf("Unknown strategy: %s", pending.Strategy), http.StatusBadRequest)
			return
		}
		assertion, err := extractor.Extract(profile)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to normalize profile: %v", err), http.StatusBadRequest)
			return
		}

		s.HandleAssertion(w, r, assertion)
	}
}

// HandleAssertion runs the reconciliation protocol for an already-validated
// assertion and renders the outcome.
func (s *Server) HandleAssertion(w http.ResponseWriter, r *http.Request, assertion *identity.Assertion) {
	session := s.sessionContextFromRequest(r)

	outcome, err := s.reconciler.Reconcile(r.Context(), assertion, session)
	if err != nil {
		log.Err(err).Str("strategy", assertion.Strategy).Msg("reconciliation failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	// The request token is consumed by the attempt either way.
	if session.APIKeyRequestToken != "" {
		s.DeleteAPIKeyRequestCookie(w)
	}

	if outcome.Rejected() {
		http.Error(w, outcome.Rejection.Error(), http.StatusForbidden)
		return
	}

	if outcome.CookieValue != "" {
		s.SetRememberMeCookie(w, r, outcome.CookieValue)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"outcome":    outcome.Kind,
		"account_id": outcome.AccountID,
		"api_key":    outcome.APIKey,
	}); err != nil {
		log.Err(err).Msg("failed to encode outcome response")
	}
}

func (s *Server) authStateFromRequest(r *http.Request) (*authState, error) {
	cookie, err := r.Cookie(authStateCookieName)
	if err != nil {
		return nil, err
	}
	decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, err
	}
	var state authState
	if err := json.Unmarshal(decoded, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
