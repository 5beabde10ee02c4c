// Package styles provides the color palette and lipgloss styles used by
// ptrgen's terminal output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text
	White = lipgloss.Color("#E2E2E2")
	Gray  = lipgloss.Color("#888888")
	Muted = lipgloss.Color("#555555")

	// Accent
	Blue    = lipgloss.Color("#5FAFFF")
	DimBlue = lipgloss.Color("#3A6FA0")

	// Status
	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)
