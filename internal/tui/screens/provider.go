package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sarrajlassi/jobanalyzer/internal/form"
	"github.com/sarrajlassi/jobanalyzer/internal/tui/styles"
)

var providerTitles = map[form.Provider]string{
	form.ProviderOllama:   "🦙 Ollama (local)",
	form.ProviderOpenAI:   "🤖 OpenAI",
	form.ProviderDeepSeek: "🔍 DeepSeek",
}

// RenderProviders renders the provider tabs and the panel of the active
// provider. spin is shown while the model selector is disabled.
func RenderProviders(state *form.State, spin string, width int) string {
	var content strings.Builder

	var tabs []string
	for _, p := range form.Providers {
		if p == state.Provider {
			tabs = append(tabs, styles.TabActive.Render(providerTitles[p]))
		} else {
			tabs = append(tabs, styles.Tab.Render(providerTitles[p]))
		}
	}
	content.WriteString(strings.Join(tabs, " ") + "\n\n")

	panel := state.Panel()
	content.WriteString(styles.InputLabel.Render("Model: "))
	switch {
	case panel.Disabled:
		content.WriteString(styles.TextMutedStyle.Render(spin + " loading"))
	case len(panel.Options) == 0:
		content.WriteString(styles.TextMutedStyle.Render("(none)"))
	default:
		content.WriteString(selectedLabel(panel))
		if n := selectable(panel); n > 1 {
			content.WriteString(styles.TextMutedStyle.Render(fmt.Sprintf("  (%d models)", n)))
		}
	}
	content.WriteString("\n")

	if panel.Status != "" {
		content.WriteString(styles.TextSecondaryStyle.Render(panel.Status) + "\n")
	}

	style := styles.Panel
	if width > 0 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.TrimRight(content.String(), "\n"))
}

func selectedLabel(panel *form.ProviderPanel) string {
	for _, o := range panel.Options {
		if o.Value == panel.Selected {
			if o.Value == "" {
				return styles.TextMutedStyle.Render(o.Label)
			}
			return styles.HeaderTitle.Render(o.Label)
		}
	}
	return styles.TextMutedStyle.Render(panel.Options[0].Label)
}

func selectable(panel *form.ProviderPanel) int {
	n := 0
	for _, o := range panel.Options {
		if o.Value != "" {
			n++
		}
	}
	return n
}

// ModelPicker is the fuzzy model finder overlay
type ModelPicker struct {
	filter   func(query string) []form.ModelMatch
	input    textinput.Model
	matches  []form.ModelMatch
	selected int
	width    int
	height   int
}

// ModelChosenMsg is sent when a model is picked
type ModelChosenMsg struct {
	Value string
}

// PickerClosedMsg is sent when the picker is closed without a choice
type PickerClosedMsg struct{}

// NewModelPicker creates a picker over the options returned by filter
func NewModelPicker(filter func(query string) []form.ModelMatch) ModelPicker {
	input := textinput.New()
	input.Placeholder = "Filter models..."
	input.Focus()

	m := ModelPicker{
		filter: filter,
		input:  input,
	}
	m.matches = filter("")
	return m
}

// Init initializes the picker
func (m ModelPicker) Init() tea.Cmd {
	return textinput.Blink
}

// Matches returns the current matches
func (m ModelPicker) Matches() []form.ModelMatch {
	return m.matches
}

// Update handles messages
func (m ModelPicker) Update(msg tea.Msg) (ModelPicker, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return PickerClosedMsg{} }

		case "enter":
			if m.selected < len(m.matches) {
				value := m.matches[m.selected].Option.Value
				return m, func() tea.Msg { return ModelChosenMsg{Value: value} }
			}
			return m, nil

		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.selected < len(m.matches)-1 {
				m.selected++
			}
			return m, nil

		default:
			m.input, cmd = m.input.Update(msg)
			m.matches = m.filter(m.input.Value())
			if m.selected >= len(m.matches) {
				m.selected = max(len(m.matches)-1, 0)
			}
			return m, cmd
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the picker
func (m ModelPicker) View() string {
	var content strings.Builder

	content.WriteString(styles.HeaderTitle.Render("🔎 Find Model") + "\n\n")
	content.WriteString(m.input.View() + "\n\n")

	if len(m.matches) == 0 {
		content.WriteString(styles.TextMutedStyle.Render("  No models match") + "\n")
	}

	maxResults := min(len(m.matches), 10)
	for i := 0; i < maxResults; i++ {
		label := highlightMatches(m.matches[i].Option.Label, m.matches[i].MatchedIndexes)
		if i == m.selected {
			content.WriteString(styles.ListItemSelected.Width(50).Render(label) + "\n")
		} else {
			content.WriteString(styles.ListItem.Width(50).Render(label) + "\n")
		}
	}
	if len(m.matches) > maxResults {
		content.WriteString(styles.TextMutedStyle.Render(fmt.Sprintf("  ... and %d more", len(m.matches)-maxResults)) + "\n")
	}

	content.WriteString("\n" + styles.HelpText.Render("[↑/↓] Navigate  [Enter] Select  [Esc] Close"))

	panel := styles.Modal.Width(60).Render(content.String())
	if m.width == 0 || m.height == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// highlightMatches highlights matched characters in a string
func highlightMatches(s string, indices []int) string {
	if len(indices) == 0 {
		return s
	}

	matchSet := make(map[int]bool, len(indices))
	for _, i := range indices {
		matchSet[i] = true
	}

	var result strings.Builder
	highlight := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)
	for i, r := range s {
		if matchSet[i] {
			result.WriteString(highlight.Render(string(r)))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
