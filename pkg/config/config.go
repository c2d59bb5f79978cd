package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Backend
	APIBaseURL     string        `env:"NETUP_API_URL" envDefault:"https://deploy-back-end-chi.vercel.app/api"`
	RequestTimeout time.Duration `env:"NETUP_REQUEST_TIMEOUT" envDefault:"15s"`

	// Realtime provider
	RealtimeURL     string `env:"NETUP_REALTIME_URL"`
	RealtimeKey     string `env:"NETUP_REALTIME_KEY" envDefault:"bcaf21fe53fdcdcdc587"`
	RealtimeCluster string `env:"NETUP_REALTIME_CLUSTER" envDefault:"sa1"`

	// Local state
	SessionFile string `env:"NETUP_SESSION_FILE"`
	LogFile     string `env:"NETUP_LOG_FILE"`
	LogLevel    string `env:"NETUP_LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// RealtimeEndpoint resolves the provider websocket URL: an explicit override
// wins, otherwise it is derived from the cluster and app key the same way
// the hosted provider names its edges.
func (c *Config) RealtimeEndpoint() string {
	if c.RealtimeURL != "" {
		return c.RealtimeURL
	}
	return fmt.Sprintf("wss://ws-%s.networkup.app/app/%s", c.RealtimeCluster, c.RealtimeKey)
}
