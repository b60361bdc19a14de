// Package config provides the attr-composer CLI configuration: defaults,
// loading through viper from a YAML file and ATTR_COMPOSER_* environment
// variables, and logger construction.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides: ATTR_COMPOSER_LOG_LEVEL=debug.
	EnvPrefix = "ATTR_COMPOSER"
	// DefaultFile is read from the working directory when no file is given.
	DefaultFile = ".attr-composer.yaml"
)

// Config holds all configuration options for attr-composer.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Store StoreConfig `mapstructure:"store"`
	Gen   GenConfig   `mapstructure:"gen"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn or error
	Format string `mapstructure:"format"` // "text" (default) or "json"
}

// StoreConfig locates the SQLite database used by the demo.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// GenConfig holds facade generation options.
type GenConfig struct {
	Package  string `mapstructure:"package"`
	Output   string `mapstructure:"output"`
	Comments bool   `mapstructure:"comments"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Log:   LogConfig{Level: "info", Format: "text"},
		Store: StoreConfig{DSN: ":memory:"},
		Gen:   GenConfig{Package: "models", Output: "./models", Comments: true},
	}
}

// SetDefaults registers the defaults on v so that every key is known to
// environment overrides.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("gen.package", d.Gen.Package)
	v.SetDefault("gen.output", d.Gen.Output)
	v.SetDefault("gen.comments", d.Gen.Comments)
}

// Load reads the configuration into v. file is optional; without it the
// DefaultFile is used when present. A missing explicit file is an error.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}

	if file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks option values.
func (c Config) Validate() error {
	var errs []error

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: %q is not text or json", c.Log.Format))
	}

	if c.Gen.Package == "" {
		errs = append(errs, errors.New("gen.package is empty"))
	}

	return errors.Join(errs...)
}

// NewLogger builds the slog logger described by c, writing to w.
func NewLogger(c LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}

	return level, nil
}
