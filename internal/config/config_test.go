package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "static", cfg.Server.StaticDir)

	assert.Equal(t, "gemini", cfg.AI.DefaultProvider)
	gemini, ok := cfg.AI.Providers["gemini"]
	require.True(t, ok)
	assert.Equal(t, "gemini-1.5-flash-latest", gemini.PlannerModel)
	assert.Equal(t, "gemini-1.5-pro-latest", gemini.ProcessorModel)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.Viewport.Width)
	assert.Equal(t, 800, cfg.Browser.Viewport.Height)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Browser.PostLoadWait)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViper_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("server.port", 8080)
	v.Set("ai.default_provider", "openai")
	v.Set("browser.headless", false)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.AI.DefaultProvider)
	assert.False(t, cfg.Browser.Headless)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty default provider", func(c *Config) { c.AI.DefaultProvider = "" }},
		{"unconfigured default provider", func(c *Config) { c.AI.DefaultProvider = "mistral" }},
		{"zero viewport", func(c *Config) { c.Browser.Viewport.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
