// Package config loads the server configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the process configuration.
type Config struct {
	// Listeners
	AuthListenAddr string `envconfig:"AUTH_LISTEN_ADDR" default:":1812"`
	AcctListenAddr string `envconfig:"ACCT_LISTEN_ADDR" default:":1813"`

	// Session store and event channel
	RedisAddr    string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPass    string `envconfig:"REDIS_PASS"`
	EventChannel string `envconfig:"EVENT_CHANNEL" default:"radius:events"`

	// Credential and client files
	UsersFile   string `envconfig:"USERS_FILE" default:"users.yml"`
	ClientsFile string `envconfig:"CLIENTS_FILE" default:"clients.yml"`

	// FallbackSecret signs rejects for NAS clients that are not registered.
	FallbackSecret string `envconfig:"FALLBACK_SECRET" default:"testing123"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
