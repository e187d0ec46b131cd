package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SeverityColor returns the lipgloss style for the given severity tier.
func SeverityColor(sev domain.Severity) lipgloss.Style {
	switch sev {
	case domain.SeverityCritical:
		return StyleRed
	case domain.SeverityHigh:
		return StyleYellow
	case domain.SeverityMedium:
		return StyleBlue
	case domain.SeverityLow:
		return StyleGreen
	default:
		return StyleDim
	}
}

// SeverityIndicator returns a colored severity marker such as "● CRITICAL".
func SeverityIndicator(sev domain.Severity) string {
	return SeverityColor(sev).Render("● " + strings.ToUpper(sev.String()))
}

// StatusLabel renders a conflict lifecycle state with its color.
func StatusLabel(status domain.ConflictStatus) string {
	switch status {
	case domain.ConflictResolved:
		return StyleGreen.Render(string(status))
	case domain.ConflictAcknowledged:
		return StyleBlue.Render(string(status))
	default:
		return StyleYellow.Render(string(status))
	}
}

// LevelColor returns the style for a notification level.
func LevelColor(level domain.EventLevel) lipgloss.Style {
	switch level {
	case domain.LevelError:
		return StyleRed
	case domain.LevelWarning:
		return StyleYellow
	case domain.LevelSuccess:
		return StyleGreen
	default:
		return StyleDim
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}
