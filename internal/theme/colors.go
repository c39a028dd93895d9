package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "39" // Blue - app name, titles
	ColorSecondary Color = "86" // Cyan - remote paths
)

// Notification level colors
const (
	ColorError Color = "196" // Bright red
	ColorInfo  Color = "2"   // Green
	ColorWarn  Color = "214" // Orange
)

// Queue colors
const (
	ColorDone       Color = "2"   // Green - finished operations
	ColorPending    Color = "245" // Light gray - waiting in queue
	ColorProcessing Color = "226" // Yellow - head being transferred
)

// UI semantic colors
const (
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
)

// Progress bar gradient
const (
	ProgressGradientStart = "#5A56E0"
	ProgressGradientEnd   = "#39C5BB"
)
