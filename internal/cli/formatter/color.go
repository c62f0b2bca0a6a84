// Package formatter renders plans, customers and catalogs for the terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
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

// DisableColor switches every style to plain text, for pipes and NO_COLOR.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ProgressPill returns a colored marker for a task's progress.
func ProgressPill(p domain.Progress) string {
	switch p {
	case domain.ProgressDone:
		return StyleDim.Render("✔ Done")
	case domain.ProgressDoing:
		return StyleYellow.Render("▶ Doing")
	case domain.ProgressToDo:
		return StyleBlue.Render("○ To Do")
	default:
		return StyleDim.Render(string(p))
	}
}

// FrequencyBadge labels a task's recurrence.
func FrequencyBadge(f domain.Frequency) string {
	switch f {
	case domain.FrequencyMonthly:
		return StylePurple.Render("monthly")
	case domain.FrequencyAsNeeded:
		return StyleBlue.Render("as needed")
	default:
		return StyleDim.Render("once")
	}
}

// CustomerTypeBadge highlights paid accounts.
func CustomerTypeBadge(t domain.CustomerType) string {
	if t == domain.CustomerPaid {
		return StyleGreen.Render(string(t))
	}
	return StyleDim.Render(string(t))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
