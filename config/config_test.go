package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/krisalay/smartcache"
	"github.com/krisalay/smartcache/metrics"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50.0, cfg.CapacityMB)
	assert.Zero(t, cfg.DefaultTTLDuration())
	assert.Equal(t, 30*time.Minute, cfg.RenderTTLDuration())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, *Config)
	}{
		{
			name:     "toml",
			testFile: "cache.toml",
			checkFunc: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8.0, cfg.CapacityMB)
				assert.Equal(t, 10*time.Minute, cfg.DefaultTTLDuration())
				assert.Equal(t, "lfu", cfg.Eviction)
				assert.Equal(t, "sliding", cfg.Expiration)
				assert.Equal(t, time.Minute, cfg.SweepIntervalDuration())
				assert.True(t, cfg.SingleFlight)
				assert.Equal(t, "notty", cfg.Render.Style)
				assert.Equal(t, 100, cfg.Render.WordWrap)
				assert.Equal(t, "noop", cfg.Render.CodeFormatter)
				assert.Equal(t, time.Hour, cfg.RenderTTLDuration())
			},
		},
		{
			name:     "yaml keeps defaults for missing keys",
			testFile: "cache.yaml",
			checkFunc: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.5, cfg.CapacityMB)
				assert.Equal(t, 30*time.Second, cfg.DefaultTTLDuration())
				assert.Equal(t, "fifo", cfg.Eviction)
				assert.Equal(t, "fixed", cfg.Expiration)
				assert.Equal(t, "ascii", cfg.Render.Style)
				assert.Equal(t, "monokai", cfg.Render.CodeStyle)
			},
		},
		{
			name:     "negative capacity",
			testFile: "invalid.toml",
			wantErr:  true,
		},
		{
			name:     "unparseable ttl",
			testFile: "bad_ttl.yaml",
			wantErr:  true,
		},
		{
			name:     "missing file",
			testFile: "nope.toml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join("testdata", tt.testFile))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoadErrorsWrapConfiguration(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid.toml"))
	assert.ErrorIs(t, err, cache.ErrConfiguration)

	_, err = Load(filepath.Join("testdata", "bad_ttl.yaml"))
	assert.ErrorIs(t, err, cache.ErrConfiguration)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SMARTCACHE_CAPACITY_MB", "2.5")
	t.Setenv("SMARTCACHE_DEFAULT_TTL", "5s")
	t.Setenv("SMARTCACHE_EVICTION", "fifo")
	t.Setenv("SMARTCACHE_LOG", "debug")

	cfg, err := Load(filepath.Join("testdata", "cache.toml"))
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.CapacityMB)
	assert.Equal(t, 5*time.Second, cfg.DefaultTTLDuration())
	assert.Equal(t, "fifo", cfg.Eviction)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverrideNotANumber(t *testing.T) {
	t.Setenv("SMARTCACHE_CAPACITY_MB", "lots")

	_, err := Load("")
	assert.ErrorIs(t, err, cache.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.CapacityMB = 0 }},
		{"unknown eviction", func(c *Config) { c.Eviction = "random" }},
		{"unknown expiration", func(c *Config) { c.Expiration = "never" }},
		{"negative sweep", func(c *Config) { c.SweepInterval = "-1s" }},
		{"negative wrap", func(c *Config) { c.Render.WordWrap = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), cache.ErrConfiguration)
		})
	}
}

func TestNewCache(t *testing.T) {
	cfg := Default()
	cfg.CapacityMB = 1
	cfg.DefaultTTL = "1m"
	cfg.LogRemovals = true

	counters := &metrics.Counters{}
	c, err := cfg.NewCache(counters)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, int64(cache.BytesPerMB), c.Capacity())

	c.Set("k", "v")
	assert.InDelta(t, float64(time.Minute), float64(c.TTL("k")), float64(time.Second))

	c.Get("k")
	assert.Equal(t, uint64(1), counters.Snapshot().Hits)
}

func TestNewCacheInvalid(t *testing.T) {
	cfg := Default()
	cfg.CapacityMB = -3

	_, err := cfg.NewCache(nil)
	assert.ErrorIs(t, err, cache.ErrConfiguration)
}
