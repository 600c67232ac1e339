// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	AI      AIConfig      `mapstructure:"ai" yaml:"ai"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

// ServerConfig holds the HTTP front-end settings.
type ServerConfig struct {
	Host      string `mapstructure:"host" yaml:"host"`
	Port      int    `mapstructure:"port" yaml:"port"`
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// AIConfig names the default provider and configures each known backend.
type AIConfig struct {
	DefaultProvider string                    `mapstructure:"default_provider" yaml:"default_provider"`
	Providers       map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// ProviderConfig defines the settings for a single language-model backend.
// PlannerModel and ProcessorModel override Model for their respective roles;
// backends with a single model set only Model.
type ProviderConfig struct {
	APIKey         string        `mapstructure:"api_key" yaml:"-"`
	Model          string        `mapstructure:"model" yaml:"model"`
	PlannerModel   string        `mapstructure:"planner_model" yaml:"planner_model"`
	ProcessorModel string        `mapstructure:"processor_model" yaml:"processor_model"`
	Endpoint       string        `mapstructure:"endpoint" yaml:"endpoint"`
	Temperature    float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	APITimeout     time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
}

// ViewportConfig sets the browser window dimensions.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// BrowserConfig holds settings for the browsing device.
type BrowserConfig struct {
	Headless          bool           `mapstructure:"headless" yaml:"headless"`
	UserAgent         string         `mapstructure:"user_agent" yaml:"user_agent"`
	Viewport          ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	NavigationTimeout time.Duration  `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration  `mapstructure:"post_load_wait" yaml:"post_load_wait"`
	ScreenshotDir     string         `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
}

// SetDefaults initializes default values for all configuration parameters.
// Missing keys in a user's config file fall back to these, never to an error.
func SetDefaults(v *viper.Viper) {
	// -- Server --
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.static_dir", "static")

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "browser-agent")
	v.SetDefault("logger.log_file", "browser_agent.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- AI providers --
	v.SetDefault("ai.default_provider", "gemini")
	v.SetDefault("ai.providers.gemini.planner_model", "gemini-1.5-flash-latest")
	v.SetDefault("ai.providers.gemini.processor_model", "gemini-1.5-pro-latest")
	v.SetDefault("ai.providers.gemini.temperature", 0.7)
	v.SetDefault("ai.providers.gemini.api_timeout", "60s")
	v.SetDefault("ai.providers.openai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.providers.openai.temperature", 0.7)
	v.SetDefault("ai.providers.openai.max_tokens", 1500)
	v.SetDefault("ai.providers.openai.api_timeout", "60s")
	v.SetDefault("ai.providers.cohere.model", "command")
	v.SetDefault("ai.providers.cohere.temperature", 0.7)
	v.SetDefault("ai.providers.cohere.max_tokens", 1024)
	v.SetDefault("ai.providers.cohere.api_timeout", "60s")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.viewport.width", 1280)
	v.SetDefault("browser.viewport.height", 800)
	v.SetDefault("browser.navigation_timeout", "30s")
	v.SetDefault("browser.post_load_wait", "1500ms")
	v.SetDefault("browser.screenshot_dir", "static/screenshots")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.AI.DefaultProvider == "" {
		return fmt.Errorf("ai.default_provider is a required configuration field")
	}
	if _, ok := c.AI.Providers[c.AI.DefaultProvider]; !ok {
		return fmt.Errorf("ai.default_provider %q has no entry under ai.providers", c.AI.DefaultProvider)
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport dimensions must be positive")
	}
	return nil
}
