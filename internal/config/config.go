// Package config loads projector-generator settings from projector.yaml,
// PROJECTOR_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyPackages      = "packages"
	KeyTable         = "table"
	KeyDir           = "dir"
	KeyOutputDir     = "output.dir"
	KeyOutputSuffix  = "output.suffix"
	KeyOutputListing = "output.listing"
	KeyCache         = "cache"
	KeyWorkers       = "workers"
	KeyLogLevel      = "log.level"
)

// EnvPrefix prefixes environment overrides: PROJECTOR_OUTPUT_DIR sets output.dir.
const EnvPrefix = "PROJECTOR"

// Config is the resolved configuration.
type Config struct {
	// Packages lists compilation units; each entry holds whitespace-separated
	// package patterns loaded together.
	Packages []string `mapstructure:"packages"`
	// Table is a YAML descriptor table used instead of loading packages.
	Table string `mapstructure:"table"`
	// Dir is the directory package patterns are resolved from.
	Dir    string `mapstructure:"dir"`
	Output Output `mapstructure:"output"`
	// Cache is the incremental generation cache file; empty disables it.
	Cache   string `mapstructure:"cache"`
	Workers int    `mapstructure:"workers"`
	Log     Log    `mapstructure:"log"`
}

// Output configures generated files.
type Output struct {
	Dir     string `mapstructure:"dir"`
	Suffix  string `mapstructure:"suffix"`
	Listing string `mapstructure:"listing"`
}

// Log configures logging.
type Log struct {
	Level string `mapstructure:"level"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("projector")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPackages, []string{"./..."})
	v.SetDefault(KeyTable, "")
	v.SetDefault(KeyDir, "")
	v.SetDefault(KeyOutputDir, "")
	v.SetDefault(KeyOutputSuffix, "_projection.go")
	v.SetDefault(KeyOutputListing, "projections_listing.go")
	v.SetDefault(KeyCache, ".projector-cache.yaml")
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyLogLevel, "info")
}

// Load reads the config file, if any, and decodes every setting. An
// explicit file must exist; the default projector.yaml is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate normalizes derived values and rejects invalid ones.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Output.Suffix == "" || !strings.HasSuffix(c.Output.Suffix, ".go") {
		return fmt.Errorf("output.suffix must end in .go, got %q", c.Output.Suffix)
	}

	return nil
}

// SlogLevel parses log.level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}

	return level, nil
}

// Units splits Packages into compilation units. Patterns given on the
// command line replace the configured units with a single one.
func (c *Config) Units(args []string) [][]string {
	if len(args) > 0 {
		return [][]string{args}
	}

	var units [][]string
	for _, entry := range c.Packages {
		if patterns := strings.Fields(entry); len(patterns) > 0 {
			units = append(units, patterns)
		}
	}

	return units
}
