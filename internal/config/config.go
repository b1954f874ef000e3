// Package config defines the CLI configuration.
//
// Values resolve in this order, highest first:
//
//	flag > PERSPECTIVE_<NAME> environment variable > config file > default
//
// Defaults are declared as struct tags and applied with creasty/defaults;
// viper merges the other layers.
//
//	┌───────────┬─────────┬──────────────────────────────────────────┐
//	│ Field     │ Default │ Description                              │
//	├───────────┼─────────┼──────────────────────────────────────────┤
//	│ Format    │ "text"  │ Output format: "text" or "json"          │
//	│ Verbose   │ false   │ Debug logging on stderr                  │
//	│ DB        │ ""      │ SQLite inventory database                │
//	│ Inventory │ ""      │ YAML inventory file                      │
//	│ MaxRows   │ 100000  │ Row cap per join; 0 disables the cap     │
//	│ Suffixes  │ []      │ Host name suffixes stripped by find      │
//	└───────────┴─────────┴──────────────────────────────────────────┘
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "PERSPECTIVE"

// Formats are the accepted output formats.
var Formats = []string{"text", "json"}

// Config holds the settings shared by every command.
type Config struct {
	Format    string   `default:"text" mapstructure:"format"`
	Verbose   bool     `mapstructure:"verbose"`
	DB        string   `mapstructure:"db"`
	Inventory string   `mapstructure:"inventory"`
	MaxRows   int      `default:"100000" mapstructure:"max-rows"`
	Suffixes  []string `mapstructure:"suffixes"`
}

// Default returns a Config with every default applied.
func Default() Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return c
}

// Load resolves the configuration for flags. file may be empty.
func Load(flags *pflag.FlagSet, file string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Keys without a flag are only seen by Unmarshal once bound.
	if err := v.BindEnv("suffixes"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	c := Default()
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, Formats)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("invalid max-rows %d: must not be negative", c.MaxRows)
	}
	return nil
}
