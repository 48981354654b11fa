package tui

import "github.com/charmbracelet/lipgloss"

// Palette leans on fairway greens with gold for money and roles.
const (
	colorText    = lipgloss.Color("#FAFAFA")
	colorFairway = lipgloss.Color("#2E8B57")
	colorGreen   = lipgloss.Color("#96CEB4")
	colorGold    = lipgloss.Color("#FFD700")
	colorHazard  = lipgloss.Color("#FF6B6B")
	colorSand    = lipgloss.Color("#FFEAA7")
	colorMuted   = lipgloss.Color("#626262")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorFairway).
			Bold(true)

	HoleInfoStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)

	// The captain and the Goat get called out in the standings pane.
	CaptainStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)

	GoatStyle = lipgloss.NewStyle().
			Foreground(colorHazard).
			Bold(true)

	PlayerInfoStyle = lipgloss.NewStyle().
			Foreground(colorText)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorHazard).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorSand).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
