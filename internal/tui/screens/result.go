package screens

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sarrajlassi/jobanalyzer/internal/tui/styles"
)

// ResultScreen shows the extracted JSON in a scrollable viewport
type ResultScreen struct {
	viewport viewport.Model
	feedback time.Duration
	copied   bool
	copySeq  int
	focused  bool
}

// CopyResetMsg ends the copy feedback started by copy number Seq
type CopyResetMsg struct {
	Seq int
}

// NewResultScreen creates the result panel. feedback is how long the copy
// button shows its confirmation.
func NewResultScreen(feedback time.Duration) ResultScreen {
	return ResultScreen{
		viewport: viewport.New(80, 10),
		feedback: feedback,
	}
}

// SetContent replaces the displayed text and scrolls to the top
func (m *ResultScreen) SetContent(text string) {
	m.viewport.SetContent(text)
	m.viewport.GotoTop()
}

// SetSize fits the viewport
func (m *ResultScreen) SetSize(width, height int) {
	m.viewport.Width = max(width-4, 10)
	m.viewport.Height = max(height, 3)
}

// Focus routes scrolling keys to the viewport
func (m *ResultScreen) Focus() { m.focused = true }

// Blur stops routing keys to the viewport
func (m *ResultScreen) Blur() { m.focused = false }

// Focused reports whether the result has focus
func (m ResultScreen) Focused() bool { return m.focused }

// Copied reports whether the copy confirmation is showing
func (m ResultScreen) Copied() bool { return m.copied }

// AtTop reports whether the viewport is scrolled to the top
func (m ResultScreen) AtTop() bool { return m.viewport.AtTop() }

// MarkCopied shows the copy confirmation and schedules its reset
func (m *ResultScreen) MarkCopied() tea.Cmd {
	m.copied = true
	m.copySeq++
	seq := m.copySeq
	return tea.Tick(m.feedback, func(time.Time) tea.Msg {
		return CopyResetMsg{Seq: seq}
	})
}

// Update handles messages
func (m ResultScreen) Update(msg tea.Msg) (ResultScreen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case CopyResetMsg:
		// A newer copy restarts the feedback
		if msg.Seq == m.copySeq {
			m.copied = false
		}
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		m.viewport, cmd = m.viewport.Update(msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
	}

	return m, cmd
}

// View renders the result panel
func (m ResultScreen) View() string {
	var content strings.Builder

	copyButton := styles.ButtonPrimary.Render("📋 Copy JSON")
	if m.copied {
		copyButton = styles.ButtonSuccess.Render("✅ Copied!")
	}
	content.WriteString(styles.HeaderTitle.Render("📊 Extracted Information") + "  " + copyButton + "\n\n")
	content.WriteString(m.viewport.View())

	panel := styles.Panel
	if m.focused {
		panel = styles.PanelFocused
	}
	return panel.Render(content.String())
}
