package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
	"github.com/sarrajlassi/jobanalyzer/internal/config"
	"github.com/sarrajlassi/jobanalyzer/internal/version"
)

// ============== Config Command ==============

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Initialize, view, and validate the Job Analyzer configuration.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Long: `Creates a new configuration file at ~/.config/jobanalyzer/config.yaml
(or at the path given with --config) with default values. An existing file
is not overwritten unless --force is specified.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Loads and displays the effective configuration from file, .env and environment variables.`,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Validates the current configuration and checks that the extraction service answers.`,
	RunE:  runConfigValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jobanalyzer %s (commit %s)\n", version.Version, version.Commit)
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	return initConfig(cfgFile, force, cmd.OutOrStdout())
}

// initConfig writes the default configuration to path, or to the default
// location when path is empty
func initConfig(path string, force bool, out io.Writer) error {
	cfg := config.DefaultConfig()

	if path == "" {
		path = config.GetConfigPath()
		if config.ConfigFileExists() && !force {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.SaveToFile(path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
	}

	fmt.Fprintf(out, "Configuration file created at: %s\n", path)
	fmt.Fprintln(out, "\nYou can now edit this file to customize your settings.")
	fmt.Fprintln(out, "Environment variables (or a .env file) can also override specific values:")
	fmt.Fprintln(out, "  JOBANALYZER_SERVER_URL  - extraction service URL")
	fmt.Fprintln(out, "  JOBANALYZER_LOG_LEVEL   - debug, info, warn or error")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	return showConfig(cfg, cmd.OutOrStdout())
}

func showConfig(cfg *config.Config, out io.Writer) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	source := cfgFile
	if source == "" {
		source = config.GetConfigPath()
	}
	fmt.Fprintln(out, "# Current Configuration")
	fmt.Fprintf(out, "# Source: %s\n\n", source)
	_, err = out.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "❌ Configuration is invalid: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "✅ Configuration is valid")

	fmt.Fprintln(out, "\nTesting extraction service connection...")
	client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout, zerolog.Nop())

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		fmt.Fprintf(out, "⚠️  Connection to %s failed: %v\n", cfg.Server.BaseURL, err)
		fmt.Fprintln(out, "   The form will still start but cannot analyze postings until the service is up.")
		return nil
	}
	fmt.Fprintf(out, "✅ Extraction service reachable (status: %s)\n", health.Status)
	return nil
}
