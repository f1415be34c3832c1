// Package config loads CLI configuration from file, environment, and flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all CLI configuration options.
type Config struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	DocID   string `koanf:"doc_id"`
	Timeout int    `koanf:"timeout"` // seconds
	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"` // table or json
}

// Default configuration values.
const (
	DefaultBaseURL = "https://docs.getgrist.com"
	DefaultTimeout = 30
	DefaultOutput  = "table"
)

// Config file names searched in the working directory.
var configFileNames = []string{"grist.yaml", "grist.yml", ".grist.yaml", ".grist.yml"}

// envPrefix is the environment variable prefix: GRIST_API_KEY, GRIST_DOC_ID, ...
const envPrefix = "GRIST_"

// Load reads configuration with precedence (highest to lowest):
// flags > environment variables > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"base_url": DefaultBaseURL,
		"timeout":  DefaultTimeout,
		"output":   DefaultOutput,
	}, "."), nil); err != nil {
		return nil, err
	}

	// Config file (explicit path or first known name that exists)
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	// Environment: GRIST_API_KEY -> api_key
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, err
	}

	// Flags: --api-key -> api_key; only flags the user changed win
	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the options remote operations need are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required (set GRIST_API_KEY or api_key in grist.yaml)")
	}
	if c.DocID == "" {
		return fmt.Errorf("doc_id is required (set GRIST_DOC_ID or doc_id in grist.yaml)")
	}
	if c.Output != "table" && c.Output != "json" {
		return fmt.Errorf("output must be table or json, got %q", c.Output)
	}
	return nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
