package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sarrajlassi/jobanalyzer/internal/form"
	"github.com/sarrajlassi/jobanalyzer/internal/render"
	"github.com/sarrajlassi/jobanalyzer/internal/service"
	"github.com/sarrajlassi/jobanalyzer/internal/tui/screens"
	"github.com/sarrajlassi/jobanalyzer/internal/tui/styles"
)

// Overlay is the screen drawn over the form, if any
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayPicker
	OverlayHelp
)

// Options configures the application
type Options struct {
	Controller *form.Controller
	Clipboard  *service.ClipboardService

	// Highlighter colors the result; nil shows it plain
	Highlighter *render.Highlighter

	// CopyFeedback is how long "Copied!" stays up
	CopyFeedback time.Duration

	ServerURL string
	Logger    zerolog.Logger
}

// App is the main application model. It is the only writer of the form
// state: network results come back as messages and are applied here.
type App struct {
	ctx         context.Context
	ctrl        *form.Controller
	clipboard   *service.ClipboardService
	highlighter *render.Highlighter
	logger      zerolog.Logger
	serverURL   string

	width   int
	height  int
	overlay Overlay
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// Screens
	input   screens.InputScreen
	result  screens.ResultScreen
	picker  screens.ModelPicker
	helpScr screens.HelpScreen
}

// NewApp creates the application. Network calls are bound to ctx.
func NewApp(ctx context.Context, opts Options) *App {
	if opts.CopyFeedback <= 0 {
		opts.CopyFeedback = 2 * time.Second
	}
	state := opts.Controller.State()

	return &App{
		ctx:         ctx,
		ctrl:        opts.Controller,
		clipboard:   opts.Clipboard,
		highlighter: opts.Highlighter,
		logger:      opts.Logger.With().Str("component", "tui").Logger(),
		serverURL:   opts.ServerURL,
		keys:        DefaultKeyMap,
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:       screens.NewInputScreen(state.Text, state.Mode),
		result:      screens.NewResultScreen(opts.CopyFeedback),
	}
}

// Init loads the server configuration; model discovery follows it
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadConfig(),
		a.input.Init(),
		a.spinner.Tick,
	)
}

// Overlay returns the overlay currently shown
func (a *App) Overlay() Overlay {
	return a.overlay
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.layout()
		switch a.overlay {
		case OverlayPicker:
			a.picker, cmd = a.picker.Update(msg)
		case OverlayHelp:
			a.helpScr, cmd = a.helpScr.Update(msg)
		}
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case configLoadedMsg:
		_ = a.ctrl.CompleteConfig(msg.cfg, msg.err)
		a.ctrl.BeginDiscovery()
		return a, a.discoverModels()

	case modelsLoadedMsg:
		a.ctrl.CompleteDiscovery(msg.models, msg.err)
		return a, nil

	case previewDoneMsg:
		_ = a.ctrl.CompletePreview(msg.req, msg.preview, msg.err)
		a.layout()
		return a, nil

	case extractDoneMsg:
		a.completeSubmission(msg)
		return a, nil

	case screens.PreviewRequestedMsg:
		return a, a.startPreview()

	case screens.FileChosenMsg:
		a.chooseFile(msg.Path)
		return a, nil

	case screens.ModelChosenMsg:
		if err := a.ctrl.SelectModel(a.ctrl.State().Provider, msg.Value); err != nil {
			a.logger.Warn().Err(err).Msg("model selection rejected")
		}
		a.overlay = OverlayNone
		return a, nil

	case screens.PickerClosedMsg, screens.HelpClosedMsg:
		a.overlay = OverlayNone
		return a, nil

	case screens.CopyResetMsg:
		a.result, cmd = a.result.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		a.result, cmd = a.result.Update(msg)
		return a, cmd
	}

	// Cursor blinks and the like
	var cmds []tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	if a.overlay == OverlayPicker {
		a.picker, cmd = a.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	switch a.overlay {
	case OverlayPicker:
		a.picker, cmd = a.picker.Update(msg)
		return a, cmd
	case OverlayHelp:
		a.helpScr, cmd = a.helpScr.Update(msg)
		return a, cmd
	}

	state := a.ctrl.State()

	switch {
	case key.Matches(msg, a.keys.Submit):
		return a, a.startSubmission()

	case key.Matches(msg, a.keys.Mode):
		a.syncInput()
		_ = a.ctrl.SetMode(next(form.Modes, state.Mode))
		a.input.SetMode(state.Mode)
		a.layout()
		return a, nil

	case key.Matches(msg, a.keys.Provider):
		_ = a.ctrl.SetProvider(next(form.Providers, state.Provider))
		return a, nil

	case key.Matches(msg, a.keys.NextModel):
		a.ctrl.CycleModel(1)
		return a, nil

	case key.Matches(msg, a.keys.PrevModel):
		a.ctrl.CycleModel(-1)
		return a, nil

	case key.Matches(msg, a.keys.Filter):
		if state.Panel().Disabled {
			return a, nil
		}
		a.picker = screens.NewModelPicker(a.ctrl.FilterModels)
		a.overlay = OverlayPicker
		a.picker, _ = a.picker.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.picker.Init()

	case key.Matches(msg, a.keys.Preview):
		if state.Mode != form.ModeURL {
			return a, nil
		}
		return a, a.startPreview()

	case key.Matches(msg, a.keys.Copy):
		return a, a.copyResult()

	case key.Matches(msg, a.keys.Focus):
		a.toggleFocus()
		return a, nil

	case key.Matches(msg, a.keys.Help):
		a.helpScr = screens.NewHelpScreen(helpMarkdown(a.keys), a.width, a.height)
		a.overlay = OverlayHelp
		return a, nil

	case key.Matches(msg, a.keys.Dismiss):
		a.ctrl.DismissError()
		a.layout()
		return a, nil
	}

	if a.result.Focused() {
		a.result, cmd = a.result.Update(msg)
		return a, cmd
	}

	a.input, cmd = a.input.Update(msg)
	a.syncInput()
	return a, cmd
}

// syncInput copies the input widgets into the form state
func (a *App) syncInput() {
	a.ctrl.SetText(a.input.Text())
	a.ctrl.SetURL(a.input.URL())
}

func (a *App) startSubmission() tea.Cmd {
	a.syncInput()
	if a.ctrl.State().SubmitDisabled() {
		return nil
	}

	sub, err := a.ctrl.BeginSubmit()
	if err != nil {
		a.logger.Debug().Err(err).Msg("submission not started")
		a.layout()
		return nil
	}
	a.layout()
	return a.sendSubmission(sub)
}

func (a *App) completeSubmission(msg extractDoneMsg) {
	err := a.ctrl.CompleteSubmit(msg.sub, msg.res, msg.err)
	if errors.Is(err, form.ErrStale) {
		return
	}

	state := a.ctrl.State()
	if state.ResultVisible {
		a.result.SetContent(a.highlight(state.Result))
		a.input.Blur()
		a.result.Focus()
	}
	a.layout()
}

func (a *App) startPreview() tea.Cmd {
	a.syncInput()
	if a.ctrl.State().PreviewLoading {
		return nil
	}

	req, err := a.ctrl.BeginPreview()
	if err != nil {
		a.layout()
		return nil
	}
	return a.fetchPreview(req)
}

func (a *App) chooseFile(path string) {
	if _, err := a.ctrl.SelectFile(path); err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("file rejected")
		a.ctrl.ShowError(err.Error())
	} else {
		a.ctrl.DismissError()
	}
	a.layout()
}

func (a *App) copyResult() tea.Cmd {
	state := a.ctrl.State()
	if !state.ResultVisible || a.clipboard == nil {
		return nil
	}

	if _, err := a.clipboard.Copy(state.Result); err != nil {
		a.logger.Error().Err(err).Msg("failed to copy")
		a.ctrl.ShowError("Failed to copy: " + service.ErrClipboardUnavailable.Error())
		a.layout()
		return nil
	}
	return a.result.MarkCopied()
}

func (a *App) toggleFocus() {
	if a.result.Focused() || !a.ctrl.State().ResultVisible {
		a.result.Blur()
		a.input.Focus()
		return
	}
	a.input.Blur()
	a.result.Focus()
}

func (a *App) highlight(text string) string {
	if a.highlighter == nil {
		return text
	}
	return a.highlighter.Highlight(text)
}

// layout shrinks the input while a result is shown and gives the result
// viewport the remaining height
func (a *App) layout() {
	if a.width == 0 || a.height == 0 {
		return
	}

	textHeight := max(a.height/3, 5)
	if a.ctrl.State().ResultVisible {
		textHeight = 5
	}
	a.input.SetSize(a.width, textHeight)

	used := lipgloss.Height(a.formView()) + lipgloss.Height(a.help.View(a.keys))
	// result panel border and header
	a.result.SetSize(a.width, a.height-used-4)
}

// View renders the application
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	switch a.overlay {
	case OverlayPicker:
		return a.picker.View()
	case OverlayHelp:
		return a.helpScr.View()
	}

	parts := []string{a.formView()}
	if a.ctrl.State().ResultVisible {
		parts = append(parts, a.result.View())
	}
	parts = append(parts, a.help.View(a.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) formView() string {
	state := a.ctrl.State()
	var content strings.Builder

	content.WriteString(styles.Logo.Render("💼 Job Posting Analyzer"))
	if a.serverURL != "" {
		content.WriteString("  " + styles.TextMutedStyle.Render(a.serverURL))
	}
	content.WriteString("\n")

	content.WriteString(a.input.View(state) + "\n")
	content.WriteString(screens.RenderProviders(state, a.spinner.View(), a.width) + "\n")

	if state.SubmitDisabled() {
		content.WriteString(styles.ButtonDisabled.Render("🚀 Analyze Job Posting") + "  " +
			a.spinner.View() + " " + styles.TextSecondaryStyle.Render(state.LoadingText))
	} else {
		content.WriteString(styles.ButtonPrimary.Render("🚀 Analyze Job Posting") + "  " +
			styles.RenderKeybind("ctrl+s", "analyze"))
	}
	content.WriteString("\n")

	bannerWidth := max(a.width-2, 20)
	if state.Error != "" {
		content.WriteString(styles.ErrorBanner.Width(bannerWidth).Render("❌ "+state.Error) + "\n")
	}
	if s := state.Success; s != nil {
		content.WriteString(styles.SuccessBanner.Width(bannerWidth).Render(successText(s)) + "\n")
	}

	return strings.TrimRight(content.String(), "\n")
}

func successText(s *form.Success) string {
	var b strings.Builder
	b.WriteString(styles.SuccessText.Render("✅ Analysis Complete!") + "\n")
	fmt.Fprintf(&b, "Provider: %s\n", s.Provider)
	fmt.Fprintf(&b, "Content Length: %d characters\n", s.ContentLength)
	fmt.Fprintf(&b, "Processing Time: %s", s.CompletedAt.Format("3:04:05 PM"))
	for _, w := range s.Warnings {
		b.WriteString("\n" + styles.WarningText.Render("⚠ "+w))
	}
	return b.String()
}

func next[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
