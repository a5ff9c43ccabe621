package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// HelpScreen shows the usage guide rendered from markdown
type HelpScreen struct {
	markdown string
	viewport viewport.Model
	width    int
	height   int
}

// HelpClosedMsg is sent when the help screen is closed
type HelpClosedMsg struct{}

// NewHelpScreen creates a help screen for markdown
func NewHelpScreen(markdown string, width, height int) HelpScreen {
	m := HelpScreen{
		markdown: markdown,
		viewport: viewport.New(max(width, 40), max(height-2, 5)),
		width:    width,
		height:   height,
	}
	m.viewport.SetContent(renderMarkdown(markdown, m.viewport.Width))
	return m
}

// Init initializes the help screen
func (m HelpScreen) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpScreen) Update(msg tea.Msg) (HelpScreen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width, 40)
		m.viewport.Height = max(msg.Height-2, 5)
		m.viewport.SetContent(renderMarkdown(m.markdown, m.viewport.Width))

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "f1":
			return m, func() tea.Msg { return HelpClosedMsg{} }
		}
		m.viewport, cmd = m.viewport.Update(msg)
	}

	return m, cmd
}

// View renders the help screen
func (m HelpScreen) View() string {
	return m.viewport.View() + "\n" +
		lipgloss.NewStyle().Faint(true).Padding(0, 2).Render("↑/↓ scroll • esc close")
}

// renderMarkdown renders markdown with glamour, falling back to the raw text
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}
