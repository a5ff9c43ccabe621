package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sarrajlassi/jobanalyzer/internal/form"
	"github.com/sarrajlassi/jobanalyzer/internal/tui/styles"
)

// InputScreen holds the three input panels. Only the panel of the active
// mode is shown and focused.
type InputScreen struct {
	text    textarea.Model
	url     textinput.Model
	pdf     textinput.Model
	mode    form.Mode
	width   int
	focused bool
}

// PreviewRequestedMsg is sent when enter is pressed in the URL input
type PreviewRequestedMsg struct{}

// FileChosenMsg is sent when enter is pressed in the PDF path input
type FileChosenMsg struct {
	Path string
}

var modeTitles = map[form.Mode]string{
	form.ModeText: "📝 Text",
	form.ModeURL:  "🔗 URL",
	form.ModePDF:  "📄 PDF",
}

// NewInputScreen creates the input panels
func NewInputScreen(text string, mode form.Mode) InputScreen {
	ta := textarea.New()
	ta.Placeholder = "Paste the job posting here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(8)
	ta.SetValue(text)

	url := textinput.New()
	url.Placeholder = "https://example.com/jobs/123"
	url.Prompt = "URL: "

	pdf := textinput.New()
	pdf.Placeholder = "~/Downloads/job-posting.pdf"
	pdf.Prompt = "File: "

	m := InputScreen{
		text: ta,
		url:  url,
		pdf:  pdf,
		mode: mode,
	}
	m.Focus()
	return m
}

// Init initializes the input screen
func (m InputScreen) Init() tea.Cmd {
	return textarea.Blink
}

// SetMode shows the panel of mode
func (m *InputScreen) SetMode(mode form.Mode) {
	m.mode = mode
	if m.focused {
		m.Focus()
	}
}

// Focus focuses the active panel
func (m *InputScreen) Focus() {
	m.focused = true
	m.text.Blur()
	m.url.Blur()
	m.pdf.Blur()
	switch m.mode {
	case form.ModeURL:
		m.url.Focus()
	case form.ModePDF:
		m.pdf.Focus()
	default:
		m.text.Focus()
	}
}

// Blur removes focus from every panel
func (m *InputScreen) Blur() {
	m.focused = false
	m.text.Blur()
	m.url.Blur()
	m.pdf.Blur()
}

// SetSize fits the panels to the window
func (m *InputScreen) SetSize(width, textHeight int) {
	m.width = width
	m.text.SetWidth(width - 4)
	m.text.SetHeight(textHeight)
	m.url.Width = width - 12
	m.pdf.Width = width - 12
}

// Text returns the pasted posting
func (m InputScreen) Text() string {
	return m.text.Value()
}

// URL returns the posting URL
func (m InputScreen) URL() string {
	return m.url.Value()
}

// Update handles messages
func (m InputScreen) Update(msg tea.Msg) (InputScreen, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		switch m.mode {
		case form.ModeURL:
			return m, func() tea.Msg { return PreviewRequestedMsg{} }
		case form.ModePDF:
			path := m.pdf.Value()
			return m, func() tea.Msg { return FileChosenMsg{Path: path} }
		}
	}

	switch m.mode {
	case form.ModeURL:
		m.url, cmd = m.url.Update(msg)
	case form.ModePDF:
		m.pdf, cmd = m.pdf.Update(msg)
	default:
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

// View renders the mode tabs and the active panel
func (m InputScreen) View(state *form.State) string {
	var content strings.Builder

	var tabs []string
	for _, mode := range form.Modes {
		if mode == state.Mode {
			tabs = append(tabs, styles.TabActive.Render(modeTitles[mode]))
		} else {
			tabs = append(tabs, styles.Tab.Render(modeTitles[mode]))
		}
	}
	content.WriteString(strings.Join(tabs, " ") + "\n\n")

	switch state.Mode {
	case form.ModeURL:
		content.WriteString(m.url.View() + "  ")
		if state.PreviewLoading {
			content.WriteString(styles.ButtonDisabled.Render(state.PreviewLabel()))
		} else {
			content.WriteString(styles.Button.Render(state.PreviewLabel()))
		}
		content.WriteString("\n")
		if p := state.Preview; p != nil {
			content.WriteString("\n" + styles.SuccessText.Render("✅ "+p.Title) + "\n")
			content.WriteString(styles.InputLabel.Render("URL: ") + p.URL + "\n")
			content.WriteString(styles.InputLabel.Render("Content Preview: ") +
				styles.TextSecondaryStyle.Render(styles.TruncateWithEllipsis(p.Text, 3*m.width)) + "\n")
			content.WriteString(styles.InputLabel.Render("Total Length: ") + fmt.Sprintf("%d characters", p.Length) + "\n")
		}

	case form.ModePDF:
		content.WriteString(m.pdf.View() + "\n")
		if f := state.File; f != nil {
			content.WriteString("\n" + styles.SuccessText.Render("✅ "+f.Name+" selected") + "\n")
			content.WriteString(styles.InputLabel.Render("Size: ") + form.FormatBytes(f.Size) + "\n")
			content.WriteString(styles.InputLabel.Render("Type: ") + f.Type + "\n")
		} else {
			content.WriteString(styles.TextMutedStyle.Render("Type a path and press enter to select a PDF") + "\n")
		}

	default:
		content.WriteString(m.text.View() + "\n")
	}

	panel := styles.Panel
	if m.focused {
		panel = styles.PanelFocused
	}
	if m.width > 0 {
		panel = panel.Width(m.width - 2)
	}
	return panel.Render(strings.TrimRight(content.String(), "\n"))
}
