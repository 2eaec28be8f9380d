package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/careerai/relay/pkg/dotdir"
)

const envPrefix = "CAREERAI"

// legacyEnv lists the unprefixed variable names the relay has always read.
// They are consulted after the CAREERAI_ prefixed name.
var legacyEnv = map[string]string{
	"openrouter.url":   "OPENROUTER_API_URL",
	"openrouter.model": "OPENROUTER_MODEL",
}

// apiKeyEnv lists the variables the API key is read from, in order. The key
// is never taken from config.toml or a flag.
var apiKeyEnv = []string{
	envPrefix + "_OPENROUTER_API_KEY",
	"OPENROUTER_API_KEY",
}

// APIKeyFromEnv returns the first non-empty API key variable, trimmed.
func APIKeyFromEnv() string {
	for _, name := range apiKeyEnv {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// LoadSecrets loads KEY=value pairs from path into the process environment.
// Variables that are already set are left alone. A missing file is not an
// error; the returned bool reports whether the file was read.
func LoadSecrets(path string) (bool, error) {
	if path == "" {
		path = DefaultSecretsFile
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading secrets file: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("loading secrets file %s: %w", path, err)
	}

	return true, nil
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CAREERAI_SERVER_LISTEN, OPENROUTER_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
//
// The API key is not a viper key; FromViper reads it with APIKeyFromEnv.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
		if err := v.ReadInConfig(); err != nil {
			// Config file not found errors are fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if version := v.GetInt("version"); version != 0 && version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", version, CurrentV)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	return v, nil
}

// FromViper builds a Config from the resolved viper values and the API key
// from the environment.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Version: v.GetInt("version"),
		Server: ServerConfig{
			Listen:      v.GetString("server.listen"),
			CORSOrigins: v.GetString("server.cors_origins"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:  APIKeyFromEnv(),
			URL:     v.GetString("openrouter.url"),
			Model:   v.GetString("openrouter.model"),
			Referer: v.GetString("openrouter.referer"),
			Title:   v.GetString("openrouter.title"),
			Timeout: v.GetString("openrouter.timeout"),
		},
		Client: ClientConfig{
			RelayTarget: v.GetString("client.relay_target"),
		},
	}

	applyDefaults(cfg)

	if _, err := cfg.OpenRouter.TimeoutDuration(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	// OpenRouter
	v.SetDefault("openrouter.url", d.OpenRouter.URL)
	v.SetDefault("openrouter.model", d.OpenRouter.Model)
	v.SetDefault("openrouter.referer", d.OpenRouter.Referer)
	v.SetDefault("openrouter.title", d.OpenRouter.Title)
	v.SetDefault("openrouter.timeout", d.OpenRouter.Timeout)

	// Client
	v.SetDefault("client.relay_target", d.Client.RelayTarget)
}
