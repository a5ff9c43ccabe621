// Package config provides the configuration system for the job analyzer client
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Form      FormConfig      `mapstructure:"form" yaml:"form"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	TUI       TUIConfig       `mapstructure:"tui" yaml:"tui"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds the extraction backend connection settings
type ServerConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"` // 0 means no timeout
}

// FormConfig holds the initial form state
type FormConfig struct {
	DefaultMode     string `mapstructure:"default_mode" yaml:"default_mode"`         // text, url, pdf
	DefaultProvider string `mapstructure:"default_provider" yaml:"default_provider"` // ollama, openai, deepseek
	SamplePosting   bool   `mapstructure:"sample_posting" yaml:"sample_posting"`
}

// ProvidersConfig holds the model choices offered for hosted providers
type ProvidersConfig struct {
	OpenAI   HostedProviderConfig `mapstructure:"openai" yaml:"openai"`
	DeepSeek HostedProviderConfig `mapstructure:"deepseek" yaml:"deepseek"`
}

// HostedProviderConfig lists the selectable models of a hosted provider
type HostedProviderConfig struct {
	Models []string `mapstructure:"models" yaml:"models"`
}

// TUIConfig holds TUI-specific configuration
type TUIConfig struct {
	Theme        string        `mapstructure:"theme" yaml:"theme"` // chroma style name
	Highlight    bool          `mapstructure:"highlight" yaml:"highlight"`
	CopyFeedback time.Duration `mapstructure:"copy_feedback" yaml:"copy_feedback"`
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Dir   string `mapstructure:"dir" yaml:"dir"`
}

var (
	validModes     = []string{"text", "url", "pdf"}
	validProviders = []string{"ollama", "openai", "deepseek"}
	validLevels    = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns a new configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 0,
		},
		Form: FormConfig{
			DefaultMode:     "text",
			DefaultProvider: "ollama",
			SamplePosting:   true,
		},
		Providers: ProvidersConfig{
			OpenAI: HostedProviderConfig{
				Models: []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
			},
			DeepSeek: HostedProviderConfig{
				Models: []string{"deepseek-chat", "deepseek-reasoner"},
			},
		},
		TUI: TUIConfig{
			Theme:        "dracula",
			Highlight:    true,
			CopyFeedback: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.config/jobanalyzer/logs",
		},
	}
}

// Load loads configuration from file, .env, environment variables and defaults.
// A missing config file or .env file is not an error.
func Load(configPath string) (*Config, error) {
	// .env values never override variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("JOBANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("server.base_url", "JOBANALYZER_SERVER_URL")
	v.BindEnv("server.timeout", "JOBANALYZER_SERVER_TIMEOUT")
	v.BindEnv("logging.level", "JOBANALYZER_LOG_LEVEL")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/jobanalyzer")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg = expandPaths(cfg)

	return &cfg, nil
}

// Save saves the configuration to the default config file
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.SaveToFile(path)
}

// SaveToFile saves the configuration to a specific file
func (c *Config) SaveToFile(path string) error {
	v := viper.New()
	v.Set("server.base_url", c.Server.BaseURL)
	v.Set("server.timeout", c.Server.Timeout.String())
	v.Set("form", c.Form)
	v.Set("providers.openai.models", c.Providers.OpenAI.Models)
	v.Set("providers.deepseek.models", c.Providers.DeepSeek.Models)
	v.Set("tui.theme", c.TUI.Theme)
	v.Set("tui.highlight", c.TUI.Highlight)
	v.Set("tui.copy_feedback", c.TUI.CopyFeedback.String())
	v.Set("logging", c.Logging)

	return v.WriteConfigAs(path)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base URL is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server base URL: %q", c.Server.BaseURL)
	}

	if c.Server.Timeout < 0 {
		return fmt.Errorf("server timeout must not be negative")
	}

	if !contains(validModes, c.Form.DefaultMode) {
		return fmt.Errorf("invalid default mode: %s (must be text, url, or pdf)", c.Form.DefaultMode)
	}

	if !contains(validProviders, c.Form.DefaultProvider) {
		return fmt.Errorf("invalid default provider: %s (must be ollama, openai, or deepseek)", c.Form.DefaultProvider)
	}

	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.TUI.Theme == "" {
		return fmt.Errorf("tui theme is required")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".config", "jobanalyzer", "config.yaml")
}

// ConfigFileExists checks if the config file exists
func ConfigFileExists() bool {
	_, err := os.Stat(GetConfigPath())
	return err == nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("server.base_url", defaults.Server.BaseURL)
	v.SetDefault("server.timeout", defaults.Server.Timeout)
	v.SetDefault("form.default_mode", defaults.Form.DefaultMode)
	v.SetDefault("form.default_provider", defaults.Form.DefaultProvider)
	v.SetDefault("form.sample_posting", defaults.Form.SamplePosting)
	v.SetDefault("providers.openai.models", defaults.Providers.OpenAI.Models)
	v.SetDefault("providers.deepseek.models", defaults.Providers.DeepSeek.Models)
	v.SetDefault("tui.theme", defaults.TUI.Theme)
	v.SetDefault("tui.highlight", defaults.TUI.Highlight)
	v.SetDefault("tui.copy_feedback", defaults.TUI.CopyFeedback)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
}

func expandPaths(cfg Config) Config {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	if strings.HasPrefix(cfg.Logging.Dir, "~") {
		cfg.Logging.Dir = home + cfg.Logging.Dir[1:]
	}

	return cfg
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
