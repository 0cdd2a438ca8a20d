package cli

import (
	"fmt"

	"github.com/DaWei8/phasely/internal/cli/formatter"
	"github.com/DaWei8/phasely/internal/domain"
	"github.com/spf13/cobra"
)

const defaultListLimit = 10

func newPlansCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plans",
		Aliases: []string{"plan"},
		Short:   "Browse and manage stored study plans",
	}

	cmd.AddCommand(
		newPlansListCmd(app),
		newPlansShowCmd(app),
		newPlansRemoveCmd(app),
		newPlansClearCmd(app),
	)

	return cmd
}

func newPlansListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the most recently generated plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			plans, err := app.Plans.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultListLimit, "Maximum number of plans to show")
	return cmd
}

func newPlansShowCmd(app *App) *cobra.Command {
	var (
		verbose bool
		day     int
	)

	cmd := &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan's overview and calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePlan(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if day > 0 {
				idx := domain.FindItem(p.Calendar, day)
				if idx < 0 {
					return fmt.Errorf("plan %s has no item for day %d", p.DisplayID(), day)
				}
				fmt.Fprint(out, formatter.FormatItem(p.Calendar[idx]))
				return nil
			}

			fmt.Fprint(out, formatter.FormatPlanDetail(p, formatter.DetailOptions{Verbose: verbose}))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show descriptions and resources for every day")
	cmd.Flags().IntVar(&day, "day", 0, "Show a single day in full")
	return cmd
}

func newPlansRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <plan-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a plan and its calendar",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePlan(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(app, yes, fmt.Sprintf("Delete plan %q?", formatter.Truncate(p.Goal, 40)))
			if err != nil || !ok {
				return err
			}
			if err := app.Plans.Delete(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s (%s)\n", p.DisplayID(), p.Goal)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newPlansClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear <plan-id>",
		Short: "Remove every calendar item from a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePlan(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(app, yes, fmt.Sprintf("Clear all %s of %q?", formatter.Plural(len(p.Calendar), "item"), formatter.Truncate(p.Goal, 40)))
			if err != nil || !ok {
				return err
			}
			if _, err := app.Plans.ClearCalendar(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared calendar of plan %s\n", p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks before a destructive action when running interactively.
// Non-interactive runs proceed without asking.
func confirm(app *App, skip bool, title string) (bool, error) {
	if skip || !app.interactive() {
		return true, nil
	}
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}
