package server

import (
	"net/http"

	"github.com/jrsteele09/go-identity-server/auth"
)

// authStateCookieName tracks the in-flight handshake state between the login
// redirect and the provider callback.
const authStateCookieName = "auth_state"

// SetRememberMeCookie places a freshly issued remember-me token on the
// response. The value is the bit-exact 4-field token; max age matches the
// record TTL.
func (s *Server) SetRememberMeCookie(w http.ResponseWriter, r *http.Request, cookieValue string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRememberMeCookieName(),
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetRememberMeTTL().Seconds()),
	})
}

// SetAPIKeyRequestCookie opens an API-key request by placing its token on the
// response. The max age bounds how long the request stays redeemable; the
// next completed login consumes it.
func (s *Server) SetAPIKeyRequestCookie(w http.ResponseWriter, r *http.Request, requestToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetAPIKeyRequestCookieName(),
		Value:    requestToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetAPIKeyRequestMaxAge().Seconds()),
	})
}

// DeleteAPIKeyRequestCookie removes the API-key request cookie once its token
// has been consumed, whether or not the exchange succeeded.
func (s *Server) DeleteAPIKeyRequestCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   s.config.GetAPIKeyRequestCookieName(),
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// sessionContextFromRequest derives the reconciler's session context from the
// request cookies. Absent cookies simply leave fields empty.
func (s *Server) sessionContextFromRequest(r *http.Request) auth.SessionContext {
	session := auth.SessionContext{}
	if cookie, err := r.Cookie(s.config.GetRememberMeCookieName()); err == nil {
		session.RememberMeToken = cookie.Value
	}
	if cookie, err := r.Cookie(s.config.GetAPIKeyRequestCookieName()); err == nil {
		session.APIKeyRequestToken = cookie.Value
	}
	return session
}

func (s *Server) setAuthStateCookie(w http.ResponseWriter, r *http.Request, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authStateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60 * 10, // long enough for the provider round trip
	})
}

func (s *Server) clearAuthStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   authStateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
