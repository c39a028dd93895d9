package theme

import "github.com/charmbracelet/lipgloss"

// Main UI styles
var (
	HelpStyle      = lipgloss.NewStyle().Foreground(ColorMuted).Padding(1, 0, 0, 0)
	HighlightStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	MutedStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	NormalStyle    = lipgloss.NewStyle().Foreground(ColorNormal)
	RemoteStyle    = lipgloss.NewStyle().Foreground(ColorSecondary)
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 0, 1, 0)
)

// Notification styles
var (
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	InfoStyle  = lipgloss.NewStyle().Foreground(ColorInfo)
	WarnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)

// Queue item styles
var (
	DoneStyle       = lipgloss.NewStyle().Foreground(ColorDone)
	PendingStyle    = lipgloss.NewStyle().Foreground(ColorPending)
	ProcessingStyle = lipgloss.NewStyle().Foreground(ColorProcessing).Bold(true)
)

// Queue item icons
const (
	IconDone       = "✓"
	IconFailed     = "✗"
	IconPending    = "○"
	IconProcessing = "●"
)
