package style

import "github.com/charmbracelet/lipgloss"

// Interface colors, from the Catppuccin Mocha palette.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Text     = lipgloss.Color("#cdd6f4")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Lavender = lipgloss.Color("#b4befe")
)

var (
	AccentColor = Mauve
	HiRed       = Red
	// NoticeColor is for transient messages that disappear on their own.
	NoticeColor = Peach
	// AlertColor is for messages that stay until dismissed.
	AlertColor = Red
)
