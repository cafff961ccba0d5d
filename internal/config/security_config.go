package config

import (
	"strconv"
	"time"
)

type SecurityConfig interface {
	GetHashAlgorithm() string
	GetHashIterations() int
	GetRememberMeTTL() time.Duration
	GetRememberMeCookieName() string
	GetAPIKeyRequestCookieName() string
	GetAPIKeyRequestMaxAge() time.Duration
	GetAPIKeySecret() string
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetHashAlgorithm returns the keyed-hash algorithm used for newly issued
// remember-me records. Previously stored records self-describe their
// parameters, so this can change between deployments.
func (Security) GetHashAlgorithm() string {
	return GetEnv("HASH_ALGORITHM", "sha256")
}

func (Security) GetHashIterations() int {
	iterations, err := strconv.Atoi(GetEnv("HASH_ITERATIONS", "1000"))
	if err != nil || iterations < 1 {
		return 1000
	}
	return iterations
}

func (Security) GetRememberMeTTL() time.Duration {
	return 30 * 24 * time.Hour // 30 days
}

func (Security) GetRememberMeCookieName() string {
	return "remember_me"
}

func (Security) GetAPIKeyRequestCookieName() string {
	return "apikey_request"
}

func (Security) GetAPIKeyRequestMaxAge() time.Duration {
	return 30 * time.Minute
}

func (Security) GetAPIKeySecret() string {
	return GetEnv("API_KEY_SECRET", "dev-api-key-secret")
}
