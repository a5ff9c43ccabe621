package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:5000", cfg.Server.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Server.Timeout)
	assert.Equal(t, "text", cfg.Form.DefaultMode)
	assert.Equal(t, "ollama", cfg.Form.DefaultProvider)
	assert.True(t, cfg.Form.SamplePosting)
	assert.Contains(t, cfg.Providers.OpenAI.Models, "gpt-4o-mini")
	assert.Contains(t, cfg.Providers.DeepSeek.Models, "deepseek-chat")
	assert.Equal(t, "dracula", cfg.TUI.Theme)
	assert.True(t, cfg.TUI.Highlight)
	assert.Equal(t, 2*time.Second, cfg.TUI.CopyFeedback)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.Server.BaseURL = "" },
			wantErr: true,
			errMsg:  "server base URL is required",
		},
		{
			name:    "URL without scheme",
			mutate:  func(c *Config) { c.Server.BaseURL = "localhost:5000" },
			wantErr: true,
			errMsg:  "invalid server base URL",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Server.Timeout = -time.Second },
			wantErr: true,
			errMsg:  "must not be negative",
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Form.DefaultMode = "docx" },
			wantErr: true,
			errMsg:  "invalid default mode",
		},
		{
			name:    "invalid provider",
			mutate:  func(c *Config) { c.Form.DefaultProvider = "anthropic" },
			wantErr: true,
			errMsg:  "invalid default provider",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "empty theme",
			mutate:  func(c *Config) { c.TUI.Theme = "" },
			wantErr: true,
			errMsg:  "tui theme is required",
		},
		{
			name:   "pdf mode with deepseek",
			mutate: func(c *Config) { c.Form.DefaultMode = "pdf"; c.Form.DefaultProvider = "deepseek" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  base_url: "http://analyzer.test:8080"
  timeout: 45s
form:
  default_mode: url
  default_provider: openai
  sample_posting: false
providers:
  openai:
    models: ["gpt-4o"]
tui:
  theme: monokai
  highlight: false
  copy_feedback: 500ms
logging:
  level: debug
  dir: /var/log/jobanalyzer
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://analyzer.test:8080", cfg.Server.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "url", cfg.Form.DefaultMode)
	assert.Equal(t, "openai", cfg.Form.DefaultProvider)
	assert.False(t, cfg.Form.SamplePosting)
	assert.Equal(t, []string{"gpt-4o"}, cfg.Providers.OpenAI.Models)
	assert.Contains(t, cfg.Providers.DeepSeek.Models, "deepseek-chat")
	assert.Equal(t, "monokai", cfg.TUI.Theme)
	assert.False(t, cfg.TUI.Highlight)
	assert.Equal(t, 500*time.Millisecond, cfg.TUI.CopyFeedback)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/jobanalyzer", cfg.Logging.Dir)
}

func TestLoadWithEnvVars(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("JOBANALYZER_SERVER_URL", "http://env.test:5000")
	t.Setenv("JOBANALYZER_LOG_LEVEL", "warn")

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  base_url: http://file.test:5000\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Environment variables override the config file
	assert.Equal(t, "http://env.test:5000", cfg.Server.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", tmpDir)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("JOBANALYZER_SERVER_URL=http://dotenv.test:5000\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("JOBANALYZER_SERVER_URL") })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://dotenv.test:5000", cfg.Server.BaseURL)
}

func TestLoadWithoutFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Server.BaseURL, cfg.Server.BaseURL)
	assert.Equal(t, filepath.Join(tmpDir, ".config/jobanalyzer/logs"), cfg.Logging.Dir)
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://saved.test:5000"
	cfg.Server.Timeout = 90 * time.Second
	cfg.Form.DefaultProvider = "deepseek"

	configPath := filepath.Join(tmpDir, "saved-config.yaml")
	require.NoError(t, cfg.SaveToFile(configPath))

	loaded, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://saved.test:5000", loaded.Server.BaseURL)
	assert.Equal(t, 90*time.Second, loaded.Server.Timeout)
	assert.Equal(t, "deepseek", loaded.Form.DefaultProvider)
	assert.Equal(t, cfg.TUI.CopyFeedback, loaded.TUI.CopyFeedback)
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	assert.Equal(t, filepath.Join(tmpDir, ".config", "jobanalyzer", "config.yaml"), GetConfigPath())
	assert.False(t, ConfigFileExists())
}
