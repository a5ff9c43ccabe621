package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
	"github.com/sarrajlassi/jobanalyzer/internal/form"
)

// Results of the network calls, delivered back on the event loop

type configLoadedMsg struct {
	cfg *api.ServerConfig
	err error
}

type modelsLoadedMsg struct {
	models []api.Model
	err    error
}

type previewDoneMsg struct {
	req     *form.PreviewRequest
	preview *api.URLPreview
	err     error
}

type extractDoneMsg struct {
	sub *form.Submission
	res *api.ExtractResult
	err error
}

// The commands below run off the event loop and must not touch the state.

func (a *App) loadConfig() tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		cfg, err := ctrl.FetchConfig(ctx)
		return configLoadedMsg{cfg: cfg, err: err}
	}
}

func (a *App) discoverModels() tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		models, err := ctrl.FetchModels(ctx)
		return modelsLoadedMsg{models: models, err: err}
	}
}

func (a *App) fetchPreview(req *form.PreviewRequest) tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		preview, err := ctrl.FetchPreview(ctx, req)
		return previewDoneMsg{req: req, preview: preview, err: err}
	}
}

func (a *App) sendSubmission(sub *form.Submission) tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		res, err := ctrl.Send(ctx, sub)
		return extractDoneMsg{sub: sub, res: res, err: err}
	}
}
