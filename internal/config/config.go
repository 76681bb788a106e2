// Package config handles loading and validating siumaigw gateway
// configuration. The core library itself never reads a file — only the
// gateway binary (cmd/siumaigw) does; config loading lives outside the
// thing being configured.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level configuration for the siumaigw gateway.
type Config struct {
	Server    ServerConfig              `koanf:"server"`
	Providers map[string]ProviderConfig `koanf:"providers"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// ProviderConfig overrides internal/registry's defaults for one provider
// id. Every field is optional: a zero value means "use the registry's
// environment-variable lookup / provider spec default" — this is an
// override map over the registry's already-open provider table, so an
// entry is only needed when a caller wants to deviate from the default.
type ProviderConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

// Load reads configuration from a YAML file, layers environment
// variable overrides on top, and returns a fully populated Config. A
// missing path is not an error: the gateway still runs with Server's
// zero values (defaulted by cmd/siumaigw) and an empty Providers map,
// relying entirely on {UPPERCASE(id)}_API_KEY lookups.
func Load(path string) (*Config, error) {
	// Load .env file into the process environment (ignored if not present).
	_ = godotenv.Load()

	k := koanf.New(".")

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
		} else if !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("loading config file: %w", statErr)
		}
	}

	// Layer environment variables on top. Any env var starting with
	// "SIUMAIGW_" overrides a config value, e.g.
	//   SIUMAIGW_SERVER_PORT -> server.port
	if err := k.Load(env.Provider("SIUMAIGW_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "SIUMAIGW_")),
			"_", ".",
		)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR_NAME} placeholders in provider API keys/base URLs.
	// koanf doesn't do this automatically, so it's handled here with
	// os.Getenv.
	for name, p := range cfg.Providers {
		p.APIKey = expandEnv(p.APIKey)
		p.BaseURL = expandEnv(p.BaseURL)
		cfg.Providers[name] = p
	}

	return &cfg, nil
}

func expandEnv(v string) string {
	if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") {
		return os.Getenv(v[2 : len(v)-1])
	}
	return v
}
