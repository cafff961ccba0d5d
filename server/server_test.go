package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	fakeaccountrepo "github.com/jrsteele09/go-identity-server/accounts/repofake"
	"github.com/jrsteele09/go-identity-server/auth"
	"github.com/jrsteele09/go-identity-server/identity"
	fakelinkrepo "github.com/jrsteele09/go-identity-server/identity/repofake"
	"github.com/jrsteele09/go-identity-server/internal/config"
	"github.com/jrsteele09/go-identity-server/server"
	fakesettingsrepo "github.com/jrsteele09/go-identity-server/settings/repofake"
	tokenrepofake "github.com/jrsteele09/go-identity-server/token/repofake"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	repos := auth.Repos{
		Accounts: fakeaccountrepo.NewFakeAccountRepo(),
		Links:    fakelinkrepo.NewFakeLinkRepo(),
		Settings: fakesettingsrepo.NewFakeSettingsRepo(),
	}
	srv, err := server.New(config.New(), repos, tokenrepofake.NewFakeRememberMeRepo(), tokenrepofake.NewFakeAPIKeyRepo())
	require.NoError(t, err)
	return srv
}

func findCookie(t *testing.T, response *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestHandleAssertionSetsRememberMeCookie(t *testing.T) {
	srv := newTestServer(t)

	request := httptest.NewRequest(http.MethodGet, server.RouteExternalCallback, nil)
	recorder := httptest.NewRecorder()
	srv.HandleAssertion(recorder, request, identity.NewAssertion("github", "42", []string{"a@x.com"}, "Ada", "Lovelace", "", nil))

	response := recorder.Result()
	require.Equal(t, http.StatusOK, response.StatusCode)

	cookie := findCookie(t, response, config.New().GetRememberMeCookieName())
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	var body map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	require.Equal(t, "created", body["outcome"])
	require.NotEmpty(t, body["account_id"])
}

func TestHandleAssertionRendersRejection(t *testing.T) {
	srv := newTestServer(t)

	first := httptest.NewRecorder()
	srv.HandleAssertion(first, httptest.NewRequest(http.MethodGet, server.RouteExternalCallback, nil),
		identity.NewAssertion("github", "42", []string{"a@x.com"}, "Ada", "Lovelace", "", nil))
	require.Equal(t, http.StatusOK, first.Result().StatusCode)

	// Same email arriving from a different strategy must be refused with the
	// user-facing reason.
	second := httptest.NewRecorder()
	srv.HandleAssertion(second, httptest.NewRequest(http.MethodGet, server.RouteExternalCallback, nil),
		identity.NewAssertion("google", "99", []string{"a@x.com"}, "Ada", "Lovelace", "", nil))

	response := second.Result()
	require.Equal(t, http.StatusForbidden, response.StatusCode)
	require.Contains(t, second.Body.String(), "a@x.com")
	require.Nil(t, findCookie(t, response, config.New().GetRememberMeCookieName()))
}

func TestHandleAssertionConsumesAPIKeyRequestCookie(t *testing.T) {
	srv := newTestServer(t)
	cfg := config.New()

	request := httptest.NewRequest(http.MethodGet, server.RouteExternalCallback, nil)
	request.AddCookie(&http.Cookie{Name: cfg.GetAPIKeyRequestCookieName(), Value: "cli-request"})
	recorder := httptest.NewRecorder()
	srv.HandleAssertion(recorder, request, identity.NewAssertion("github", "42", []string{"a@x.com"}, "", "", "", nil))

	response := recorder.Result()
	require.Equal(t, http.StatusOK, response.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	require.NotEmpty(t, body["api_key"])

	// The request cookie is consumed whether or not the exchange succeeded.
	deleted := findCookie(t, response, cfg.GetAPIKeyRequestCookieName())
	require.NotNil(t, deleted)
	require.Less(t, deleted.MaxAge, 0)
}

func TestAPIKeyRequestHandlerOpensRequest(t *testing.T) {
	srv := newTestServer(t)
	cfg := config.New()

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, server.RouteAPIKeyRequest+"?strategy=github", nil))

	response := recorder.Result()
	require.Equal(t, http.StatusFound, response.StatusCode)
	require.Equal(t, server.RouteExternalLogin+"?strategy=github", response.Header.Get("Location"))

	cookie := findCookie(t, response, cfg.GetAPIKeyRequestCookieName())
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, int(cfg.GetAPIKeyRequestMaxAge().Seconds()), cookie.MaxAge)
}

func TestExternalLoginHandlerRejectsUnknownStrategy(t *testing.T) {
	srv := newTestServer(t)

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, server.RouteExternalLogin+"?strategy=myspace", nil))
	require.Equal(t, http.StatusBadRequest, recorder.Result().StatusCode)
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, server.RouteHealth, nil))
	require.Equal(t, http.StatusOK, recorder.Result().StatusCode)
}
