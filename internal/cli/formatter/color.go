package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorOrange = lipgloss.Color("#d65d0e")
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

// phaseColors cycles through the palette for phases 1..7.
var phaseColors = []lipgloss.Color{
	ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorAqua, ColorOrange, ColorRed,
}

// PhaseStyle returns the style used for a phase number. Unknown phases are dim.
func PhaseStyle(phase int) lipgloss.Style {
	if phase <= 0 {
		return StyleDim
	}
	return lipgloss.NewStyle().Foreground(phaseColors[(phase-1)%len(phaseColors)])
}

// PhaseBadge renders a short colored phase label such as "P3".
func PhaseBadge(phase int) string {
	if phase <= 0 {
		return StyleDim.Render("--")
	}
	return PhaseStyle(phase).Render(fmt.Sprintf("P%d", phase))
}

// CheckMark renders the completion marker for a calendar item.
func CheckMark(done bool) string {
	if done {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}

// Header renders a fixed section label, uppercased, with an underline.
func Header(text string) string {
	return Title(strings.ToUpper(text))
}

// Title renders user text such as a plan goal in the header style with an
// underline, keeping its casing.
func Title(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(text), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
