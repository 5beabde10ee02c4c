package styles

import "github.com/charmbracelet/lipgloss"

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Subtitle is used for secondary headings.
	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for field names.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// Value is used for field values.
	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for hints and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText highlights zone names and paths.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Zone outcome badges ---

// Outcome values shown in the generate summary.
const (
	OutcomeWritten = "written"
	OutcomeDryRun  = "dry-run"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// StatusStyle returns the style for a zone outcome.
func StatusStyle(outcome string) lipgloss.Style {
	switch outcome {
	case OutcomeWritten:
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case OutcomeDryRun:
		return lipgloss.NewStyle().Foreground(Blue)
	case OutcomeSkipped:
		return lipgloss.NewStyle().Foreground(Yellow)
	case OutcomeFailed:
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a small dot + outcome text with appropriate color.
func StatusIndicator(outcome string) string {
	style := StatusStyle(outcome)
	return style.Render("●") + " " + style.Render(outcome)
}

// --- Layout ---

var (
	// Card frames the summary block.
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimBlue).
		Padding(0, 1)

	// TableHeader styles column headings.
	TableHeader = lipgloss.NewStyle().
			Foreground(Gray).
			Bold(true).
			PaddingRight(2)

	// TableCell pads body cells to line up with TableHeader.
	TableCell = lipgloss.NewStyle().
			PaddingRight(2)
)

// KeyValue renders "label: value" with the label and value styles.
func KeyValue(label, value string) string {
	return Label.Render(label+":") + " " + Value.Render(value)
}
