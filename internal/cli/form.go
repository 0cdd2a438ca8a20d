package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/cli/formatter"
	"github.com/DaWei8/phasely/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// phaselyHuhTheme returns a huh theme matching the formatter palette.
func phaselyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// generateForm asks for whichever of goal and duration are still unset.
// durationStr is pre-filled from *duration when it is positive.
func generateForm(goal *string, durationStr *string) *huh.Form {
	var fields []huh.Field
	if strings.TrimSpace(*goal) == "" {
		fields = append(fields, huh.NewInput().
			Title("What do you want to learn?").
			Placeholder("e.g. Conversational Spanish").
			Value(goal).
			Validate(validateGoal))
	}
	fields = append(fields, huh.NewInput().
		Title("How many days?").
		Description(fmt.Sprintf("1-%d", domain.MaxDuration)).
		Placeholder("30").
		Value(durationStr).
		Validate(validateDuration))

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithTheme(phaselyHuhTheme()).WithShowHelp(false)
}

// confirmForm creates a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(phaselyHuhTheme()).WithShowHelp(false)
}

func validateGoal(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("goal is required")
	}
	return nil
}

// validateDuration accepts an integer in 1..MaxDuration.
func validateDuration(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	if v > domain.MaxDuration {
		return fmt.Errorf("at most %d days", domain.MaxDuration)
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
