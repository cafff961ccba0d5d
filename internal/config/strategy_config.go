package config

import "strings"

// StrategyConfig exposes per-strategy OAuth client settings. Strategy names
// map to env vars by upper-casing, e.g. google -> GOOGLE_CLIENT_ID.
type StrategyConfig interface {
	GetStrategyClientID(strategy string) string
	GetStrategyClientSecret(strategy string) string
	GetStrategyIssuer(strategy string) string
}

type Strategies struct{}

var _ StrategyConfig = Strategies{}

var defaultIssuers = map[string]string{
	"google": "https://accounts.google.com",
}

func (Strategies) GetStrategyClientID(strategy string) string {
	return GetEnv(strategyEnvPrefix(strategy)+"_CLIENT_ID", "")
}

func (Strategies) GetStrategyClientSecret(strategy string) string {
	return GetEnv(strategyEnvPrefix(strategy)+"_CLIENT_SECRET", "")
}

func (Strategies) GetStrategyIssuer(strategy string) string {
	return GetEnv(strategyEnvPrefix(strategy)+"_ISSUER", defaultIssuers[strategy])
}

func strategyEnvPrefix(strategy string) string {
	return strings.ToUpper(strings.ReplaceAll(strategy, "-", "_"))
}
