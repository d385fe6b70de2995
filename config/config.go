// Package config loads SmartCache settings from TOML or YAML files, applies
// environment overrides, validates them, and builds a cache from the result.
//
// File format is chosen by extension: .yaml/.yml is YAML, anything else TOML.
//
// Environment overrides (applied after the file):
//   - SMARTCACHE_CAPACITY_MB: capacity_mb
//   - SMARTCACHE_DEFAULT_TTL: default_ttl (Go duration, e.g. "10m")
//   - SMARTCACHE_EVICTION:    eviction
//   - SMARTCACHE_LOG:         log_level
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	cache "github.com/krisalay/smartcache"
	"github.com/krisalay/smartcache/engine"
	"github.com/krisalay/smartcache/eviction"
	"github.com/krisalay/smartcache/expiration"
	"github.com/krisalay/smartcache/notify"
	"github.com/krisalay/smartcache/sizing"
	"github.com/krisalay/smartcache/types"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete cache configuration. Durations are Go duration
// strings ("90s", "10m"); empty or "0" disables the feature.
type Config struct {
	// CapacityMB is the memory budget in megabytes. Must be positive.
	CapacityMB float64 `toml:"capacity_mb" yaml:"capacity_mb"`

	// DefaultTTL applies to entries set without an explicit TTL.
	DefaultTTL string `toml:"default_ttl" yaml:"default_ttl"`

	// Eviction is "lru" (default), "lfu" or "fifo".
	Eviction string `toml:"eviction" yaml:"eviction"`

	// Expiration is "fixed" (default) or "sliding".
	Expiration string `toml:"expiration" yaml:"expiration"`

	// SweepInterval enables a background purge of expired entries.
	SweepInterval string `toml:"sweep_interval" yaml:"sweep_interval"`

	// SingleFlight deduplicates concurrent misses in memoized renderers.
	SingleFlight bool `toml:"single_flight" yaml:"single_flight"`

	// LogLevel is an apex/log level name.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// LogRemovals logs every removal at debug level.
	LogRemovals bool `toml:"log_removals" yaml:"log_removals"`

	Render RenderConfig `toml:"render" yaml:"render"`
}

// RenderConfig configures the memoized content renderers.
type RenderConfig struct {
	// Style is the glamour Markdown style.
	Style string `toml:"style" yaml:"style"`
	// WordWrap is the Markdown wrap column.
	WordWrap int `toml:"word_wrap" yaml:"word_wrap"`
	// CodeStyle is the chroma style for code blocks.
	CodeStyle string `toml:"code_style" yaml:"code_style"`
	// CodeFormatter is the chroma formatter for code blocks.
	CodeFormatter string `toml:"code_formatter" yaml:"code_formatter"`
	// TTL bounds how long a rendering is reused.
	TTL string `toml:"ttl" yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CapacityMB:    50,
		DefaultTTL:    "",
		Eviction:      "lru",
		Expiration:    "fixed",
		SweepInterval: "",
		LogLevel:      "error",
		Render: RenderConfig{
			Style:         "dark",
			WordWrap:      80,
			CodeStyle:     "monokai",
			CodeFormatter: "terminal256",
			TTL:           "30m",
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(cfg, path); err != nil {
			return nil, err
		}
		log.Debugf("using config file: %s", path)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read YAML file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}
	default:
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			log.Warnf("config: unknown key %q in %s", key.String(), path)
		}
	}
	return nil
}

// ApplyEnvOverrides applies SMARTCACHE_* environment variables.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("SMARTCACHE_CAPACITY_MB"); v != "" {
		mb, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: SMARTCACHE_CAPACITY_MB=%q is not a number", cache.ErrConfiguration, v)
		}
		c.CapacityMB = mb
	}
	if v := os.Getenv("SMARTCACHE_DEFAULT_TTL"); v != "" {
		c.DefaultTTL = v
	}
	if v := os.Getenv("SMARTCACHE_EVICTION"); v != "" {
		c.Eviction = v
	}
	if v := os.Getenv("SMARTCACHE_LOG"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks every field. All failures wrap cache.ErrConfiguration.
func (c *Config) Validate() error {
	if !(c.CapacityMB > 0) {
		return fmt.Errorf("%w: capacity_mb must be positive, got %v", cache.ErrConfiguration, c.CapacityMB)
	}
	if _, err := eviction.ParsePolicyType(c.Eviction); err != nil {
		return fmt.Errorf("%w: %v", cache.ErrConfiguration, err)
	}
	if _, err := expiration.New(c.Expiration, 0); err != nil {
		return fmt.Errorf("%w: %v", cache.ErrConfiguration, err)
	}
	for name, v := range map[string]string{
		"default_ttl":    c.DefaultTTL,
		"sweep_interval": c.SweepInterval,
		"render.ttl":     c.Render.TTL,
	} {
		if _, err := parseDuration(name, v); err != nil {
			return err
		}
	}
	if c.Render.WordWrap < 0 {
		return fmt.Errorf("%w: render.word_wrap must not be negative, got %d", cache.ErrConfiguration, c.Render.WordWrap)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("%w: log_level: %v", cache.ErrConfiguration, err)
		}
	}
	return nil
}

// DefaultTTLDuration returns the parsed default TTL.
func (c *Config) DefaultTTLDuration() time.Duration {
	d, _ := parseDuration("default_ttl", c.DefaultTTL)
	return d
}

// SweepIntervalDuration returns the parsed sweep interval.
func (c *Config) SweepIntervalDuration() time.Duration {
	d, _ := parseDuration("sweep_interval", c.SweepInterval)
	return d
}

// RenderTTLDuration returns the parsed renderer TTL.
func (c *Config) RenderTTLDuration() time.Duration {
	d, _ := parseDuration("render.ttl", c.Render.TTL)
	return d
}

func parseDuration(name, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", cache.ErrConfiguration, name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", cache.ErrConfiguration, name, v)
	}
	return d, nil
}

// =============================================================================
// BUILDING
// =============================================================================

// NewCache validates the config and builds a cache from it. metrics may be nil.
func (c *Config) NewCache(metrics types.Metrics) (*cache.SmartCache, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	policy, _ := eviction.ParsePolicyType(c.Eviction)
	exp, _ := expiration.New(c.Expiration, c.DefaultTTLDuration())

	var listener notify.Listener
	if c.LogRemovals {
		listener = notify.LogListener{}
	}

	eng := engine.NewCacheEngine(exp, sizing.Structural{}, listener, metrics)
	eng.SweepInterval = c.SweepIntervalDuration()

	return cache.NewSmartCache(c.CapacityMB, policy, eng)
}
