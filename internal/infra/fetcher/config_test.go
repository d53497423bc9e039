package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBodySize)
	assert.Equal(t, 5, cfg.MaxRedirects)
	assert.True(t, cfg.DenyPrivateIPs)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"body too small", func(c *Config) { c.MaxBodySize = 512 }, true},
		{"body too large", func(c *Config) { c.MaxBodySize = 200 * 1024 * 1024 }, true},
		{"negative redirects", func(c *Config) { c.MaxRedirects = -1 }, true},
		{"too many redirects", func(c *Config) { c.MaxRedirects = 11 }, true},
		{"no redirects", func(c *Config) { c.MaxRedirects = 0 }, false},
		{"minimum body size", func(c *Config) { c.MaxBodySize = 1024 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
