package tui

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
	"github.com/sarrajlassi/jobanalyzer/internal/apitest"
	"github.com/sarrajlassi/jobanalyzer/internal/form"
	"github.com/sarrajlassi/jobanalyzer/internal/service"
)

type recordingClipboard struct {
	texts []string
}

func (r *recordingClipboard) Name() string    { return "recording" }
func (r *recordingClipboard) Available() bool { return true }
func (r *recordingClipboard) Write(text string) error {
	r.texts = append(r.texts, text)
	return nil
}

type testApp struct {
	*App
	srv  *apitest.Server
	clip *recordingClipboard
	t    *testing.T
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	ctrl := form.NewController(api.NewClient(srv.URL, 0, zerolog.Nop()), form.Options{
		HostedModels: map[form.Provider][]string{form.ProviderOpenAI: {"gpt-4o-mini", "gpt-4o"}},
		Logger:       zerolog.Nop(),
	})
	clip := &recordingClipboard{}

	app := NewApp(context.Background(), Options{
		Controller:   ctrl,
		Clipboard:    service.NewClipboardServiceWith(zerolog.Nop(), clip),
		CopyFeedback: time.Millisecond,
		ServerURL:    srv.URL,
		Logger:       zerolog.Nop(),
	})

	ta := &testApp{App: app, srv: srv, clip: clip, t: t}
	ta.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return ta
}

func (ta *testApp) send(msg tea.Msg) tea.Cmd {
	_, cmd := ta.Update(msg)
	return cmd
}

func (ta *testApp) press(k tea.KeyType) tea.Cmd {
	return ta.send(tea.KeyMsg{Type: k})
}

func (ta *testApp) typeText(s string) {
	ta.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// deliver runs a command and feeds its message back
func (ta *testApp) deliver(cmd tea.Cmd) tea.Cmd {
	ta.t.Helper()
	require.NotNil(ta.t, cmd)
	return ta.send(cmd())
}

func (ta *testApp) start() {
	ta.t.Helper()
	next := ta.deliver(ta.loadConfig())
	ta.deliver(next)
}

func TestStartupLoadsConfigThenModels(t *testing.T) {
	ta := newTestApp(t)

	next := ta.deliver(ta.loadConfig())
	panel := ta.ctrl.State().Panels[form.ProviderOllama]
	assert.True(t, panel.Disabled)
	assert.Equal(t, "Loading models...", panel.Status)
	assert.Equal(t, 0, ta.srv.Count(apitest.PathModels))

	ta.deliver(next)
	assert.False(t, panel.Disabled)
	assert.Equal(t, "llama2", panel.Selected)
	assert.Contains(t, ta.View(), "Found 2 model(s) - Default model 'llama2' selected")
}

func TestStartupConfigFailureStillDiscovers(t *testing.T) {
	ta := newTestApp(t)
	ta.srv.Reply(apitest.PathConfig, http.StatusInternalServerError, map[string]any{"error": "boom"})

	ta.start()
	assert.Equal(t, 1, ta.srv.Count(apitest.PathModels))
	assert.Equal(t, "mistral:7b", ta.ctrl.State().Panels[form.ProviderOllama].Selected)
}

func TestSubmitEmptyText(t *testing.T) {
	ta := newTestApp(t)

	cmd := ta.press(tea.KeyCtrlS)
	assert.Nil(t, cmd)
	assert.Equal(t, "Please enter a job posting to analyze.", ta.ctrl.State().Error)
	assert.Contains(t, ta.View(), "Please enter a job posting to analyze.")
	assert.Equal(t, 0, ta.srv.Count(apitest.PathExtract))

	ta.press(tea.KeyEsc)
	assert.Empty(t, ta.ctrl.State().Error)
}

func TestSubmitFlow(t *testing.T) {
	ta := newTestApp(t)
	ta.start()
	ta.typeText("Senior Go Engineer at Acme")

	cmd := ta.press(tea.KeyCtrlS)
	require.NotNil(t, cmd)
	assert.Contains(t, ta.View(), "Processing with OLLAMA...")

	// the button stays disabled while the request is in flight
	assert.Nil(t, ta.press(tea.KeyCtrlS))

	ta.deliver(cmd)
	state := ta.ctrl.State()
	assert.True(t, state.ResultVisible)
	assert.False(t, state.Submitting)

	view := ta.View()
	assert.Contains(t, view, "Analysis Complete!")
	assert.Contains(t, view, "Provider: OLLAMA")
	assert.Contains(t, view, "Content Length: 1234 characters")
	assert.Contains(t, view, "jobTitle")
	assert.True(t, ta.result.Focused())
	assert.True(t, ta.result.AtTop())

	reqs := ta.srv.Requests(apitest.PathExtract)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Senior Go Engineer at Acme", reqs[0]["content"])
	assert.Equal(t, map[string]any{"model": "llama2"}, reqs[0]["config"])
}

func TestSubmitFailureBanner(t *testing.T) {
	ta := newTestApp(t)
	ta.srv.Fail(apitest.PathExtract, "Ollama request timed out")
	ta.typeText("posting")

	ta.deliver(ta.press(tea.KeyCtrlS))

	state := ta.ctrl.State()
	assert.False(t, state.ResultVisible)
	assert.Equal(t, "Failed to extract job information: Ollama request timed out", state.Error)
	assert.NotContains(t, ta.View(), "Extracted Information")
}

func TestCopyFeedback(t *testing.T) {
	ta := newTestApp(t)
	ta.typeText("posting")
	ta.deliver(ta.press(tea.KeyCtrlS))

	reset := ta.press(tea.KeyCtrlY)
	require.NotNil(t, reset)
	assert.True(t, ta.result.Copied())
	assert.Contains(t, ta.View(), "Copied!")
	require.Len(t, ta.clip.texts, 1)
	assert.Equal(t, ta.ctrl.State().Result, ta.clip.texts[0])

	ta.deliver(reset)
	assert.False(t, ta.result.Copied())
}

func TestCopyWithoutResult(t *testing.T) {
	ta := newTestApp(t)

	assert.Nil(t, ta.press(tea.KeyCtrlY))
	assert.Empty(t, ta.clip.texts)
}

func TestModeSwitchAndPreview(t *testing.T) {
	ta := newTestApp(t)

	ta.press(tea.KeyCtrlT)
	require.Equal(t, form.ModeURL, ta.ctrl.State().Mode)

	ta.typeText("https://jobs.example.com/123")
	requested := ta.press(tea.KeyEnter)
	fetch := ta.deliver(requested)
	require.NotNil(t, fetch)
	assert.Equal(t, "Loading...", ta.ctrl.State().PreviewLabel())

	ta.deliver(fetch)
	state := ta.ctrl.State()
	require.NotNil(t, state.Preview)
	assert.Equal(t, "Preview", state.PreviewLabel())
	assert.Contains(t, ta.View(), "Senior Go Engineer - Acme")
	assert.Contains(t, ta.View(), "2048 characters")
}

func TestPreviewInvalidURL(t *testing.T) {
	ta := newTestApp(t)
	ta.press(tea.KeyCtrlT)
	ta.typeText("not a url")

	assert.Nil(t, ta.press(tea.KeyCtrlL))
	assert.Equal(t, "Please enter a valid URL.", ta.ctrl.State().Error)
	assert.Equal(t, 0, ta.srv.Count(apitest.PathPreview))
}

func TestChoosePDF(t *testing.T) {
	ta := newTestApp(t)
	ta.press(tea.KeyCtrlT)
	ta.press(tea.KeyCtrlT)
	require.Equal(t, form.ModePDF, ta.ctrl.State().Mode)

	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text"), 0644))

	ta.typeText(txt)
	ta.deliver(ta.press(tea.KeyEnter))
	assert.Nil(t, ta.ctrl.State().File)
	assert.Contains(t, ta.ctrl.State().Error, "Only PDF files are supported")
}

func TestCycleProviderAndModel(t *testing.T) {
	ta := newTestApp(t)

	ta.press(tea.KeyCtrlO)
	assert.Equal(t, form.ProviderOpenAI, ta.ctrl.State().Provider)
	assert.Contains(t, ta.View(), "gpt-4o-mini")

	ta.press(tea.KeyCtrlN)
	assert.Equal(t, "gpt-4o", ta.ctrl.ProviderConfig().Model)
	ta.press(tea.KeyCtrlB)
	assert.Equal(t, "gpt-4o-mini", ta.ctrl.ProviderConfig().Model)

	ta.press(tea.KeyCtrlO)
	ta.press(tea.KeyCtrlO)
	assert.Equal(t, form.ProviderOllama, ta.ctrl.State().Provider)
}

func TestModelPicker(t *testing.T) {
	ta := newTestApp(t)
	ta.start()

	ta.press(tea.KeyCtrlF)
	require.Equal(t, OverlayPicker, ta.Overlay())
	assert.Len(t, ta.picker.Matches(), 2)

	ta.typeText("mis")
	require.Len(t, ta.picker.Matches(), 1)

	ta.deliver(ta.press(tea.KeyEnter))
	assert.Equal(t, OverlayNone, ta.Overlay())
	assert.Equal(t, "mistral:7b", ta.ctrl.ProviderConfig().Model)
}

func TestModelPickerClose(t *testing.T) {
	ta := newTestApp(t)
	ta.start()

	ta.press(tea.KeyCtrlF)
	ta.deliver(ta.press(tea.KeyEsc))
	assert.Equal(t, OverlayNone, ta.Overlay())
	assert.Equal(t, "llama2", ta.ctrl.ProviderConfig().Model)
}

func TestHelpOverlay(t *testing.T) {
	ta := newTestApp(t)

	ta.press(tea.KeyF1)
	require.Equal(t, OverlayHelp, ta.Overlay())

	ta.deliver(ta.press(tea.KeyEsc))
	assert.Equal(t, OverlayNone, ta.Overlay())
}

func TestHelpMarkdownListsBindings(t *testing.T) {
	md := helpMarkdown(DefaultKeyMap)

	assert.Contains(t, md, "| `ctrl+s` | analyze |")
	assert.Contains(t, md, "| `ctrl+y` | copy json |")
	assert.Contains(t, md, "## Input modes")
}

func TestStaleExtractionIgnored(t *testing.T) {
	ta := newTestApp(t)
	ta.typeText("posting")

	first, err := ta.ctrl.BeginSubmit()
	require.NoError(t, err)
	second, err := ta.ctrl.BeginSubmit()
	require.NoError(t, err)

	ta.send(extractDoneMsg{sub: first, res: &api.ExtractResult{Data: []byte(`{"jobTitle":"old"}`)}})
	assert.False(t, ta.ctrl.State().ResultVisible)
	assert.True(t, ta.ctrl.State().Submitting)

	ta.send(extractDoneMsg{sub: second, res: &api.ExtractResult{Data: []byte(`{"jobTitle":"new","company":"Acme"}`), Provider: "ollama"}})
	assert.True(t, ta.ctrl.State().ResultVisible)
	assert.Contains(t, ta.View(), "new")
}
