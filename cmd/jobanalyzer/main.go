// Job Analyzer - terminal client for the job posting extraction service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
	"github.com/sarrajlassi/jobanalyzer/internal/config"
	"github.com/sarrajlassi/jobanalyzer/internal/form"
	"github.com/sarrajlassi/jobanalyzer/internal/logging"
	"github.com/sarrajlassi/jobanalyzer/internal/render"
	"github.com/sarrajlassi/jobanalyzer/internal/service"
	"github.com/sarrajlassi/jobanalyzer/internal/tui"
	"github.com/sarrajlassi/jobanalyzer/internal/version"
)

var (
	cfgFile   string
	serverURL string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobanalyzer",
	Short: "Extract structured information from job postings",
	Long: `Job Analyzer sends a job posting (pasted text, a URL or a PDF file) to the
extraction service and shows the key information it returns as JSON.

Without a subcommand the interactive form is started.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/jobanalyzer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "extraction service URL (overrides server.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serverConfigCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates the configuration, applying flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newController builds the form controller from the configuration
func newController(cfg *config.Config, client *api.Client, logger zerolog.Logger, sample bool) (*form.Controller, error) {
	mode, err := form.ParseMode(cfg.Form.DefaultMode)
	if err != nil {
		return nil, err
	}
	provider, err := form.ParseProvider(cfg.Form.DefaultProvider)
	if err != nil {
		return nil, err
	}

	return form.NewController(client, form.Options{
		DefaultMode:     mode,
		DefaultProvider: provider,
		HostedModels: map[form.Provider][]string{
			form.ProviderOpenAI:   cfg.Providers.OpenAI.Models,
			form.ProviderDeepSeek: cfg.Providers.DeepSeek.Models,
		},
		SamplePosting: sample,
		Logger:        logger,
	}), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so diagnostics only go to the log file
	log, err := logging.New(logging.Config{
		Level: cfg.Logging.Level,
		Dir:   cfg.Logging.Dir,
	})
	if err != nil {
		return err
	}
	defer log.Close()

	logger := log.Zerolog()
	logger.Info().Str("version", version.Version).Str("server", cfg.Server.BaseURL).Msg("starting")

	client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout, log.Component("api"))
	ctrl, err := newController(cfg, client, logger, cfg.Form.SamplePosting)
	if err != nil {
		return err
	}

	var highlighter *render.Highlighter
	if cfg.TUI.Highlight {
		highlighter = render.NewHighlighter(cfg.TUI.Theme, termenv.ColorProfile())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	app := tui.NewApp(ctx, tui.Options{
		Controller:   ctrl,
		Clipboard:    service.NewClipboardService(os.Stdout, log.Component("clipboard")),
		Highlighter:  highlighter,
		CopyFeedback: cfg.TUI.CopyFeedback,
		ServerURL:    cfg.Server.BaseURL,
		Logger:       logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info().Msg("exiting")
	return nil
}
