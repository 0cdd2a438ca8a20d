package cli

import (
	"context"
	"fmt"

	"github.com/DaWei8/phasely/internal/cli/formatter"
	"github.com/DaWei8/phasely/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"day"},
		Short:   "Track and edit individual calendar days",
	}

	cmd.AddCommand(
		newItemMutationCmd(app, "done <plan-id> <day>", "Mark a day as completed", "Completed",
			func(ctx context.Context, planID string, day int) (*domain.StudyPlan, error) {
				return app.Plans.SetCompleted(ctx, planID, day, true)
			}),
		newItemMutationCmd(app, "undo <plan-id> <day>", "Mark a day as not completed", "Reopened",
			func(ctx context.Context, planID string, day int) (*domain.StudyPlan, error) {
				return app.Plans.SetCompleted(ctx, planID, day, false)
			}),
		newItemMutationCmd(app, "toggle <plan-id> <day>", "Flip a day's completion state", "Toggled",
			app.Plans.ToggleComplete),
		newItemMutationCmd(app, "rm <plan-id> <day>", "Remove a day from the calendar", "Removed",
			app.Plans.RemoveItem),
		newItemEditCmd(app),
	)

	return cmd
}

type itemMutation func(ctx context.Context, planID string, day int) (*domain.StudyPlan, error)

// newItemMutationCmd builds the "<plan-id> <day>" subcommands that apply a
// single service mutation and report the new progress.
func newItemMutationCmd(app *App, use, short, verb string, mutate itemMutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, day, err := resolvePlanDay(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			updated, err := mutate(cmd.Context(), p.ID, day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItemChange(verb, updated, day))
			return nil
		},
	}
}

func newItemEditCmd(app *App) *cobra.Command {
	var (
		title, timeStr, description string
		phase                       int
		resources                   []string
	)

	cmd := &cobra.Command{
		Use:   "edit <plan-id> <day>",
		Short: "Edit a day's title, time, description, phase or resources",
		Example: `  phasely item edit 3f2a 4 --title "Pointers and slices"
  phasely item edit 3f2a 4 --resource https://go.dev/tour --resource https://gobyexample.com`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ItemPatch
			flags := cmd.Flags()
			if flags.NFlag() == 0 {
				return fmt.Errorf("nothing to change: pass at least one of --title, --time, --description, --phase, --resource")
			}
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("time") {
				patch.Time = &timeStr
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("phase") {
				patch.Phase = &phase
			}
			if flags.Changed("resource") {
				patch.Resources = resources
			}

			p, day, err := resolvePlanDay(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			updated, err := app.Plans.UpdateItem(cmd.Context(), p.ID, day, patch)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatItemChange("Updated", updated, day))
			if idx := domain.FindItem(updated.Calendar, day); idx >= 0 {
				fmt.Fprint(out, formatter.FormatItem(updated.Calendar[idx]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&timeStr, "time", "", "New time commitment, e.g. \"1 hour\"")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().IntVar(&phase, "phase", 0, "New phase number")
	cmd.Flags().StringArrayVar(&resources, "resource", nil,
		fmt.Sprintf("Replacement resource (repeat %d-%d times)", domain.MinManualResources, domain.MaxManualResources))

	return cmd
}
