// Package config layers command line flags, ECSTABLE_* environment variables,
// an optional .ecstable.toml file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/ecstable/logutil"
)

const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"

	envPrefix = "ECSTABLE"
	fileName  = ".ecstable"
)

// Config is the resolved application configuration
type Config struct {
	Source         string         `mapstructure:"source"`
	Backend        string         `mapstructure:"backend"`
	QuitKey        string         `mapstructure:"quit_key"`
	SelectedColumn int            `mapstructure:"selected_column"`
	Sound          bool           `mapstructure:"sound"`
	Log            logutil.Config `mapstructure:"log"`
	Debug          Debug          `mapstructure:"debug"`
}

// Debug holds diagnostics switches
type Debug struct {
	DumpCanvas bool `mapstructure:"dump_canvas"`
}

var defaults = map[string]any{
	"source":            "table.csv",
	"backend":           BackendANSI,
	"quit_key":          "q",
	"selected_column":   1,
	"sound":             false,
	"log.level":         "info",
	"log.format":        "console",
	"log.filename":      "",
	"log.max_size":      64,
	"log.max_days":      7,
	"log.max_backups":   3,
	"debug.dump_canvas": false,
}

// flagKeys maps flag names to configuration keys
var flagKeys = map[string]string{
	"backend":         "backend",
	"quit-key":        "quit_key",
	"selected-column": "selected_column",
	"sound":           "sound",
	"log-level":       "log.level",
	"log-file":        "log.filename",
	"dump-canvas":     "debug.dump_canvas",
}

// New returns a viper instance with defaults and environment binding applied
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// AddFlags registers the overridable settings on fs and binds them to v
func AddFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("backend", BackendANSI, "terminal backend: ansi or tcell")
	fs.String("quit-key", "q", "key that ends the session")
	fs.Int("selected-column", 1, "column highlighted at startup, negative for none")
	fs.Bool("sound", false, "play a tone on each swap")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-file", "", "log file path, empty disables logging")
	fs.Bool("dump-canvas", false, "log the hit-test canvas after every frame")

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file and resolves every key
// An explicit path must exist; otherwise a missing .ecstable.toml in the working directory is not an error
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if utf8.RuneCountInString(c.QuitKey) != 1 {
		return fmt.Errorf("quit key must be a single character, got %q", c.QuitKey)
	}
	if c.Source == "" {
		return errors.New("no source file")
	}
	return c.Log.Validate()
}

// QuitRune returns the quit key as a rune
func (c *Config) QuitRune() rune {
	r, _ := utf8.DecodeRuneInString(c.QuitKey)
	return r
}
