// Package config loads csgpart settings from .csgpart.yaml, CSGPART_* env
// vars and CLI flags through viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. CSGPART_EVAL_QUALITY.
const EnvPrefix = "CSGPART"

// EvalConfig holds the evaluation knobs.
type EvalConfig struct {
	Quality  int     `mapstructure:"quality"`
	Epsilon  float64 `mapstructure:"epsilon"`
	Backoff  float64 `mapstructure:"backoff"`
	MaxDepth int     `mapstructure:"max_depth"`
}

// Config holds all runtime configuration.
type Config struct {
	Eval          EvalConfig    `mapstructure:"eval"`
	PaletteFile   string        `mapstructure:"palette_file"`
	MetaTag       string        `mapstructure:"meta_tag"`
	LogLevel      string        `mapstructure:"log_level"`
	Edges         bool          `mapstructure:"edges"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// InitEnv maps CSGPART_* environment variables onto config keys; nested
// keys use underscores (eval.quality is CSGPART_EVAL_QUALITY).
func InitEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("eval.quality", 16)
	viper.SetDefault("eval.epsilon", 1e-3)
	viper.SetDefault("eval.backoff", 10.0)
	viper.SetDefault("eval.max_depth", 4096)
	viper.SetDefault("palette_file", "")
	viper.SetDefault("meta_tag", "!LPE")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("edges", false)
	viper.SetDefault("watch_debounce", 100*time.Millisecond)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Eval.Quality <= 0 || c.Eval.Quality >= 49 {
		errs = append(errs, fmt.Errorf("eval.quality %d out of range (0, 49)", c.Eval.Quality))
	}
	if c.Eval.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("eval.epsilon %g must be positive", c.Eval.Epsilon))
	}
	if c.Eval.Backoff <= 1 {
		errs = append(errs, fmt.Errorf("eval.backoff %g must be greater than 1", c.Eval.Backoff))
	}
	if c.Eval.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("eval.max_depth %d must be positive", c.Eval.MaxDepth))
	}
	if c.MetaTag == "" {
		errs = append(errs, errors.New("meta_tag must not be empty"))
	}
	if c.WatchDebounce < 0 {
		errs = append(errs, fmt.Errorf("watch_debounce %s must not be negative", c.WatchDebounce))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}
