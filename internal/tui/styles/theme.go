package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors - AdaptiveColor for light/dark terminal support
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#06B6D4") // Cyan

	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red

	Surface      = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1A1A1A"}
	SurfaceLight = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#262626"}
	Border       = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#333333"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#171717", Dark: "#FAFAFA"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#525252", Dark: "#A3A3A3"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#737373"}
	TextDisabled  = lipgloss.AdaptiveColor{Light: "#A3A3A3", Dark: "#525252"}
)

// Base styles
var (
	HeaderTitle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1)

	PanelFocused = Panel.
			BorderForeground(Primary)

	// Tabs for input modes and providers
	Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	TabActive = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	ListItem = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Padding(0, 1)

	ListItemSelected = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(Primary).
				Bold(true).
				Padding(0, 1)

	InputLabel = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Bold(true)

	Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceLight).
		Padding(0, 2).
		Bold(true)

	ButtonPrimary = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary).
			Padding(0, 2).
			Bold(true)

	ButtonSuccess = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Success).
			Padding(0, 2).
			Bold(true)

	ButtonDisabled = lipgloss.NewStyle().
			Foreground(TextDisabled).
			Background(Surface).
			Padding(0, 2)

	HelpText = lipgloss.NewStyle().
			Foreground(TextMuted)

	HelpKey = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorBanner = lipgloss.NewStyle().
			Foreground(Error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Error).
			Padding(0, 1)

	SuccessBanner = lipgloss.NewStyle().
			Foreground(Success).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(0, 1)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Divider = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))

	Modal = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Primary).
		Padding(1, 2)

	TextSecondaryStyle = lipgloss.NewStyle().
				Foreground(TextSecondary)

	TextMutedStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// TruncateWithEllipsis truncates a string and adds ellipsis if needed
func TruncateWithEllipsis(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// RenderKeybind renders a keybind in consistent style
func RenderKeybind(key, description string) string {
	return HelpKey.Render("["+key+"]") + " " + HelpText.Render(description)
}
