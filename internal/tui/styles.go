package tui

import "github.com/charmbracelet/lipgloss"

// Palette: dim bar light, whisky amber, felt green
const (
	colorText   = lipgloss.Color("#EDE6D6")
	colorAmber  = lipgloss.Color("#E0A458")
	colorFelt   = lipgloss.Color("#5FAF87")
	colorBlood  = lipgloss.Color("#E06C75")
	colorSmoke  = lipgloss.Color("#6C6C6C")
	colorVelvet = lipgloss.Color("#5B2A86")
	colorJoker  = lipgloss.Color("#C792EA")
)

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorVelvet).Bold(true)

	HandInfoStyle = lipgloss.NewStyle().Foreground(colorFelt).Bold(true)
	ActionsStyle  = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)

	// Cards
	RedCardStyle   = lipgloss.NewStyle().Foreground(colorBlood).Bold(true)
	BlackCardStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	JokerStyle     = lipgloss.NewStyle().Foreground(colorJoker).Bold(true).Italic(true)

	PlayerInfoStyle = lipgloss.NewStyle().Foreground(colorText)

	SuccessStyle = lipgloss.NewStyle().Foreground(colorFelt).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorBlood).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(colorAmber)
	InfoStyle    = lipgloss.NewStyle().Foreground(colorSmoke)
)
