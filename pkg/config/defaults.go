package config

const (
	defaultListen      = ":8000"
	defaultCORSOrigins = "*"

	defaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel         = "openrouter/auto"
	defaultReferer       = "http://localhost"
	defaultTitle         = "CareerAI"
	defaultTimeout       = "60s"

	defaultClientRelayTarget = "http://localhost:8000"

	// DefaultSecretsFile is loaded into the environment before config is read.
	DefaultSecretsFile = "secrets/.env"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:      defaultListen,
			CORSOrigins: defaultCORSOrigins,
		},
		OpenRouter: OpenRouterConfig{
			URL:     defaultOpenRouterURL,
			Model:   defaultModel,
			Referer: defaultReferer,
			Title:   defaultTitle,
			Timeout: defaultTimeout,
		},
		Client: ClientConfig{
			RelayTarget: defaultClientRelayTarget,
		},
	}
}
