// Package config holds the configuration of the product service.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Auth       config.AuthConfig       `koanf:"auth"`
	Catalog    CatalogConfig           `koanf:"catalog"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
}

// CatalogConfig controls the initial content of the store and the page sizes of listings.
type CatalogConfig struct {
	Seed         bool `koanf:"seed"`
	DefaultLimit int  `koanf:"defaultLimit"`
	MaxLimit     int  `koanf:"maxLimit"`
}

const (
	defaultPageLimit = 10
	defaultMaxLimit  = 100
)

func (c *CatalogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  seed: %t\n", c.Seed))
	b.WriteString(fmt.Sprintf("  defaultLimit: %d\n", c.DefaultLimit))
	b.WriteString(fmt.Sprintf("  maxLimit: %d\n", c.MaxLimit))
	return b.String()
}

func (c *CatalogConfig) Validate() error {
	if c.DefaultLimit < 0 || c.MaxLimit < 0 {
		return fmt.Errorf("catalog limits must not be negative: defaultLimit=%d, maxLimit=%d", c.DefaultLimit, c.MaxLimit)
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = defaultPageLimit
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = max(defaultMaxLimit, c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("catalog.maxLimit (%d) is lower than catalog.defaultLimit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Auth.String())
	b.WriteString(c.Catalog.String())
	b.WriteString(c.NATS.String())
	if c.NATS.Enabled {
		b.WriteString(c.Resilience.String())
	}
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid and fills in defaults.
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.NATS.Validate(); err != nil {
		return err
	}
	if c.NATS.Enabled {
		if err := c.Resilience.Validate(); err != nil {
			return err
		}
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}
