// Package config loads gateway configuration from an optional YAML file with
// an environment-variable overlay.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "INCIDENT_"

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Validation ValidationConfig `koanf:"validation"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`

	// Environment is "development" or "production". It controls whether
	// error envelopes expose internal type names and stack traces.
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	RequestTimeout time.Duration `koanf:"timeout"`

	// Stages is the ordered middleware chain applied to every request.
	// The order is configuration, not code: moving correlation ahead of
	// identity is a config change.
	Stages []string `koanf:"stages"`
}

type APIConfig struct {
	// DefaultVersion is used when neither the path nor the version header
	// carries a version.
	DefaultVersion string `koanf:"defaultversion"`

	// VersionHeader is the header consulted by the header resolution
	// strategy.
	VersionHeader string `koanf:"versionheader"`
}

type ValidationConfig struct {
	// DescriptionMin and DescriptionMax bound incident descriptions.
	DescriptionMin int `koanf:"descriptionmin"`
	DescriptionMax int `koanf:"descriptionmax"`
}

type EnrichmentConfig struct {
	// Mode selects the enricher implementation: "keyword" or "remote".
	Mode string `koanf:"mode"`

	// Delay is the simulated processing latency of the keyword enricher.
	Delay time.Duration `koanf:"delay"`

	// BaseURL is the endpoint of the remote enrichment service.
	BaseURL string `koanf:"baseurl"`
}

// Development reports whether the gateway runs in development configuration.
func (c *Config) Development() bool {
	return c.Environment != "production"
}

// DefaultStages is the documented stage order: the exception boundary is
// outermost, identity precedes correlation so only identified request
// attempts are traced, and the timeout deadline wraps everything downstream.
var DefaultStages = []string{"exceptions", "identity", "correlation", "timeout"}

// Load reads configuration from the given YAML file (skipped when path is
// empty or the file does not exist) and applies the INCIDENT_ env overlay.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	// Default values
	defaults := map[string]interface{}{
		"server.port":               8080,
		"server.timeout":            "30s",
		"api.defaultversion":        "1.0",
		"api.versionheader":         "X-Version",
		"validation.descriptionmin": 10,
		"validation.descriptionmax": 5000,
		"enrichment.mode":           "keyword",
		"enrichment.delay":          "2s",
		"environment":               "development",
	}
	for key, val := range defaults {
		if !k.Exists(key) {
			k.Set(key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Server.Stages) == 0 {
		cfg.Server.Stages = DefaultStages
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Validation.DescriptionMin <= 0 || c.Validation.DescriptionMax < c.Validation.DescriptionMin {
		return fmt.Errorf("validation description bounds %d-%d are inconsistent",
			c.Validation.DescriptionMin, c.Validation.DescriptionMax)
	}
	switch c.Enrichment.Mode {
	case "keyword", "remote":
	default:
		return fmt.Errorf("enrichment.mode %q must be keyword or remote", c.Enrichment.Mode)
	}
	if c.Enrichment.Mode == "remote" && c.Enrichment.BaseURL == "" {
		return fmt.Errorf("enrichment.baseurl required for remote mode")
	}
	return nil
}
