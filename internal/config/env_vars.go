package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	baseURLVar    = "BASE_URL"
	mongoURIVar   = "MONGO_URI"
	mongoDBVar    = "MONGO_DB"
	helpEmailVar  = "HELP_EMAIL"
	defaultHelpTo = "support@example.com"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Go Identity Server")
}

// GetBaseURL returns the base URL for the identity server (e.g., "https://id.example.com")
// This is used for strategy redirect URIs.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetMongoURI returns the MongoDB connection string. An empty value means the
// server runs with in-memory repositories.
func (EnvVars) GetMongoURI() string {
	return GetEnv(mongoURIVar, "")
}

func (EnvVars) GetMongoDBName() string {
	return GetEnv(mongoDBVar, "identity")
}

// GetHelpEmail returns the support contact address used as the fallback when
// the settings store has no help email configured.
func (EnvVars) GetHelpEmail() string {
	return GetEnv(helpEmailVar, defaultHelpTo)
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
