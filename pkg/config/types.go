package config

import (
	"fmt"
	"time"
)

// Config represents the persistent careerai configuration stored as
// config.toml in the .careerai/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Server     ServerConfig     `toml:"server"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Client     ClientConfig     `toml:"client"`
}

// ServerConfig holds relay server settings.
type ServerConfig struct {
	Listen      string `toml:"listen,omitempty"`
	CORSOrigins string `toml:"cors_origins,omitempty"`
}

// OpenRouterConfig holds upstream settings. APIKey is only ever read from the
// environment and is never written to config.toml.
type OpenRouterConfig struct {
	APIKey  string `toml:"-"`
	URL     string `toml:"url,omitempty"`
	Model   string `toml:"model,omitempty"`
	Referer string `toml:"referer,omitempty"`
	Title   string `toml:"title,omitempty"`
	Timeout string `toml:"timeout,omitempty"`
}

// TimeoutDuration parses Timeout, falling back to the default on an empty value.
func (o OpenRouterConfig) TimeoutDuration() (time.Duration, error) {
	if o.Timeout == "" {
		return time.ParseDuration(defaultTimeout)
	}
	d, err := time.ParseDuration(o.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid openrouter.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid openrouter.timeout: must be positive, got %s", d)
	}
	return d, nil
}

// ClientConfig holds settings for CLI commands that talk to a running relay
// (e.g. careerai chat). Values are full URLs (scheme + host + port).
type ClientConfig struct {
	RelayTarget string `toml:"relay_target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.cors_origins": {
		get: func(c *Config) string { return c.Server.CORSOrigins },
		set: func(c *Config, v string) error { c.Server.CORSOrigins = v; return nil },
	},
	"openrouter.url": {
		get: func(c *Config) string { return c.OpenRouter.URL },
		set: func(c *Config, v string) error { c.OpenRouter.URL = v; return nil },
	},
	"openrouter.model": {
		get: func(c *Config) string { return c.OpenRouter.Model },
		set: func(c *Config, v string) error { c.OpenRouter.Model = v; return nil },
	},
	"openrouter.referer": {
		get: func(c *Config) string { return c.OpenRouter.Referer },
		set: func(c *Config, v string) error { c.OpenRouter.Referer = v; return nil },
	},
	"openrouter.title": {
		get: func(c *Config) string { return c.OpenRouter.Title },
		set: func(c *Config, v string) error { c.OpenRouter.Title = v; return nil },
	},
	"openrouter.timeout": {
		get: func(c *Config) string { return c.OpenRouter.Timeout },
		set: func(c *Config, v string) error {
			next := c.OpenRouter
			next.Timeout = v
			if _, err := next.TimeoutDuration(); err != nil {
				return fmt.Errorf("invalid value for openrouter.timeout: %w", err)
			}
			c.OpenRouter.Timeout = v
			return nil
		},
	},
	"client.relay_target": {
		get: func(c *Config) string { return c.Client.RelayTarget },
		set: func(c *Config, v string) error { c.Client.RelayTarget = v; return nil },
	},
}
