package main

import (
	"fmt"

	"github.com/kbukum/ssekit/config"
	"github.com/kbukum/ssekit/server"
	"github.com/kbukum/ssekit/sse"
	"github.com/kbukum/ssekit/validation"
	"github.com/kbukum/ssekit/version"
)

// ObservabilityConfig controls the OTLP exporters.
type ObservabilityConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// DaemonConfig is the full ssekitd configuration.
type DaemonConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config       `yaml:"server" mapstructure:"server"`
	Sources       []sse.Config        `yaml:"sources" mapstructure:"sources"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields with sensible values.
func (c *DaemonConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "ssekitd"
	}
	if c.Version == "" {
		c.Version = version.GetShortVersion()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()

	if len(c.Sources) == 0 {
		c.Sources = []sse.Config{{Name: "default"}}
	}
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = "localhost:4318"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
}

// Validate checks the configuration.
func (c *DaemonConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]
		if err := validation.Validate(src); err != nil {
			return fmt.Errorf("config.sources[%d]: %w", i, err)
		}
		if seen[src.Name] {
			return fmt.Errorf("config.sources: duplicate source %q", src.Name)
		}
		seen[src.Name] = true
	}
	return nil
}
