package server

const (
	// RouteExternalLogin starts an external-login handshake:
	// GET /auth/external/login?strategy=github
	RouteExternalLogin = "/auth/external/login"

	// RouteExternalCallback receives the provider redirect and runs the
	// reconciliation protocol.
	RouteExternalCallback = "/auth/external/callback"

	// RouteAPIKeyRequest opens an API-key request and forwards to the login
	// handshake; the key is returned by the callback once the login completes.
	RouteAPIKeyRequest = "/auth/apikey/request"

	RouteHealth = "/healthz"
)
