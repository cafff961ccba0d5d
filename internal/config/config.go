package config

type Config interface {
	EnvConfig
	SecurityConfig
	StrategyConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetMongoURI() string
	GetMongoDBName() string
	GetHelpEmail() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Security
	Strategies
}

func New() Config {
	return mainConfig{}
}
