package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
	"github.com/sarrajlassi/jobanalyzer/internal/config"
	"github.com/sarrajlassi/jobanalyzer/internal/form"
	"github.com/sarrajlassi/jobanalyzer/internal/logging"
	"github.com/sarrajlassi/jobanalyzer/internal/render"
	"github.com/sarrajlassi/jobanalyzer/internal/service"
)

// extractOptions holds the flags of the extract command
type extractOptions struct {
	text     string
	textFile string
	url      string
	pdf      string
	provider string
	model    string
	copy     bool
	strict   bool
}

var extractOpts extractOptions

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract job information without the interactive form",
	Long: `Send one job posting to the extraction service and print the result as JSON.

Exactly one input is required:
  --text       the posting itself
  --text-file  a file holding the posting ("-" reads stdin)
  --url        a link to the posting
  --pdf        a PDF file`,
	Example: `  jobanalyzer extract --text-file posting.txt
  jobanalyzer extract --url https://jobs.example.com/123 --provider openai
  jobanalyzer extract --pdf ~/Downloads/offer.pdf --model mistral:7b --copy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newCLIEnv(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer env.close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		return runExtract(ctx, env, extractOpts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the server's Ollama instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newCLIEnv(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer env.close()

		return runModels(cmd.Context(), env, cmd.OutOrStdout())
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <url>",
	Short: "Show the title and beginning of the text behind a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newCLIEnv(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer env.close()

		return runPreview(cmd.Context(), env, args[0], cmd.OutOrStdout())
	},
}

var serverConfigCmd = &cobra.Command{
	Use:   "server-config",
	Short: "Show the provider defaults reported by the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newCLIEnv(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer env.close()

		return runServerConfig(cmd.Context(), env, cmd.OutOrStdout())
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the extraction service is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newCLIEnv(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer env.close()

		return runHealth(cmd.Context(), env, cmd.OutOrStdout())
	},
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&extractOpts.text, "text", "", "job posting text")
	f.StringVar(&extractOpts.textFile, "text-file", "", "file holding the job posting (- for stdin)")
	f.StringVar(&extractOpts.url, "url", "", "URL of the job posting")
	f.StringVar(&extractOpts.pdf, "pdf", "", "PDF file of the job posting")
	f.StringVarP(&extractOpts.provider, "provider", "p", "", "ollama, openai or deepseek (default from config)")
	f.StringVarP(&extractOpts.model, "model", "m", "", "model to use (default from server)")
	f.BoolVar(&extractOpts.copy, "copy", false, "copy the result to the clipboard")
	f.BoolVar(&extractOpts.strict, "strict", false, "fail when the result does not match the job posting schema")

	extractCmd.MarkFlagsMutuallyExclusive("text", "text-file", "url", "pdf")
	extractCmd.MarkFlagsOneRequired("text", "text-file", "url", "pdf")
}

// cliEnv is what the non-interactive commands share
type cliEnv struct {
	cfg    *config.Config
	log    *logging.Logger
	client *api.Client
	ctrl   *form.Controller
}

func newCLIEnv(console io.Writer) (*cliEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newCLIEnvWith(cfg, console)
}

// newCLIEnvWith builds the environment from a loaded configuration.
// Diagnostics go to console; only warnings unless verbose.
func newCLIEnvWith(cfg *config.Config, console io.Writer) (*cliEnv, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Config{
		Level:   level,
		Console: console,
		NoColor: !isTerminal(console),
	})
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout, log.Component("api"))
	ctrl, err := newController(cfg, client, log.Zerolog(), false)
	if err != nil {
		log.Close()
		return nil, err
	}

	return &cliEnv{
		cfg:    cfg,
		log:    log,
		client: client,
		ctrl:   ctrl,
	}, nil
}

func (e *cliEnv) close() {
	e.log.Close()
}

// formError prefers the message the form would have shown in its banner
func formError(ctrl *form.Controller, err error) error {
	if msg := ctrl.State().Error; msg != "" {
		return errors.New(msg)
	}
	return err
}

func runExtract(ctx context.Context, env *cliEnv, opts extractOptions, stdin io.Reader, out, errOut io.Writer) error {
	ctrl := env.ctrl

	if opts.provider != "" {
		p, err := form.ParseProvider(opts.provider)
		if err != nil {
			return err
		}
		if err := ctrl.SetProvider(p); err != nil {
			return err
		}
	}

	// Server defaults are best effort, as in the form
	_ = ctrl.LoadConfig(ctx)

	provider := ctrl.State().Provider
	switch {
	case opts.model != "":
		if err := ctrl.SelectModel(provider, opts.model); err != nil {
			return err
		}
	case provider == form.ProviderOllama:
		if _, err := ctrl.DiscoverModels(ctx); err != nil {
			return fmt.Errorf("no model given and the local models could not be listed: %w", err)
		}
	}

	if err := fillInput(ctrl, opts, stdin); err != nil {
		return formError(ctrl, err)
	}

	if ctrl.ProviderConfig().Model == "" {
		return fmt.Errorf("no model available for %s, use --model", provider)
	}

	fmt.Fprintf(errOut, "Processing with %s...\n", strings.ToUpper(string(provider)))
	if _, err := ctrl.Submit(ctx); err != nil {
		return formError(ctrl, err)
	}

	state := ctrl.State()
	result := state.Result
	if env.cfg.TUI.Highlight {
		result = render.NewHighlighter(env.cfg.TUI.Theme, outputProfile(out)).Highlight(result)
	}
	fmt.Fprintln(out, result)

	s := state.Success
	fmt.Fprintf(errOut, "✅ Analysis Complete! Provider: %s | Content Length: %d characters\n", s.Provider, s.ContentLength)
	for _, w := range s.Warnings {
		fmt.Fprintf(errOut, "⚠ %s\n", w)
	}

	if opts.copy {
		clip := service.NewClipboardService(os.Stderr, env.log.Component("clipboard"))
		via, err := clip.Copy(state.Result)
		if err != nil {
			return fmt.Errorf("failed to copy: %w", err)
		}
		fmt.Fprintf(errOut, "📋 Copied to clipboard (%s)\n", via)
	}

	if opts.strict && len(s.Warnings) > 0 {
		return fmt.Errorf("result does not match the job posting schema (%d warning(s))", len(s.Warnings))
	}
	return nil
}

// fillInput switches the form to the mode of the given input and fills it
func fillInput(ctrl *form.Controller, opts extractOptions, stdin io.Reader) error {
	switch {
	case opts.url != "":
		if err := ctrl.SetMode(form.ModeURL); err != nil {
			return err
		}
		ctrl.SetURL(opts.url)

	case opts.pdf != "":
		if err := ctrl.SetMode(form.ModePDF); err != nil {
			return err
		}
		if _, err := ctrl.SelectFile(opts.pdf); err != nil {
			return err
		}

	default:
		text := opts.text
		if opts.textFile != "" {
			data, err := readTextFile(opts.textFile, stdin)
			if err != nil {
				return err
			}
			text = data
		}
		if err := ctrl.SetMode(form.ModeText); err != nil {
			return err
		}
		ctrl.SetText(text)
	}
	return nil
}

func readTextFile(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read posting: %w", err)
	}
	return string(data), nil
}

func runModels(ctx context.Context, env *cliEnv, out io.Writer) error {
	ctrl := env.ctrl
	_ = ctrl.LoadConfig(ctx)

	models, err := ctrl.DiscoverModels(ctx)
	if err != nil {
		return formError(ctrl, err)
	}

	panel := ctrl.State().Panels[form.ProviderOllama]
	fmt.Fprintln(out, panel.Status)
	if len(models) == 0 {
		return nil
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "NAME", "SIZE", "MODIFIED")
	for _, m := range models {
		marker := ""
		if m.Name == panel.Selected {
			marker = "*"
		}
		t.Row(marker, m.Name, form.FormatBytes(m.Size), m.ModifiedAt)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func runPreview(ctx context.Context, env *cliEnv, rawURL string, out io.Writer) error {
	ctrl := env.ctrl
	if err := ctrl.SetMode(form.ModeURL); err != nil {
		return err
	}
	ctrl.SetURL(rawURL)

	preview, err := ctrl.PreviewURL(ctx)
	if err != nil {
		return formError(ctrl, err)
	}

	fmt.Fprintf(out, "Title:  %s\n", preview.Title)
	fmt.Fprintf(out, "URL:    %s\n", preview.URL)
	fmt.Fprintf(out, "Length: %d characters\n\n", preview.Length)
	fmt.Fprintln(out, preview.Text)
	return nil
}

func runServerConfig(ctx context.Context, env *cliEnv, out io.Writer) error {
	cfg, err := env.client.Config(ctx)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("PROVIDER", "DEFAULT MODEL", "API KEY")
	row := func(name string, d *api.ProviderDefaults) {
		if d == nil {
			t.Row(name, "-", "-")
			return
		}
		key := "-"
		if d.APIKeyConfigured != nil {
			key = "not configured"
			if *d.APIKeyConfigured {
				key = "configured"
			}
		}
		t.Row(name, d.DefaultModel, key)
	}
	row(string(form.ProviderOllama), cfg.Ollama)
	row(string(form.ProviderOpenAI), cfg.OpenAI)
	row(string(form.ProviderDeepSeek), cfg.DeepSeek)

	fmt.Fprintln(out, t.Render())
	return nil
}

func runHealth(ctx context.Context, env *cliEnv, out io.Writer) error {
	h, err := env.client.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Server:  %s\n", env.client.BaseURL())
	fmt.Fprintf(out, "Status:  %s\n", h.Status)
	if h.Message != "" {
		fmt.Fprintf(out, "Message: %s\n", h.Message)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputProfile returns the color profile for w; anything but a terminal gets plain text
func outputProfile(w io.Writer) termenv.Profile {
	if !isTerminal(w) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
