package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DaWei8/phasely/internal/cli/formatter"
	"github.com/DaWei8/phasely/internal/domain"
	"github.com/DaWei8/phasely/internal/export"
	"github.com/DaWei8/phasely/internal/service"
	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		goal     string
		duration int
		asJSON   bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new day-by-day study plan",
		Long: `Generate a study calendar for a learning goal.

The calendar is requested from the generation endpoint in chunks of 30 days
and stored locally. When run in a terminal without --goal or --duration, an
interactive form asks for them.`,
		Example: `  phasely generate --goal "Learn Go" --duration 45
  phasely generate --goal "Music theory" --duration 14 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := app.interactive()

			if strings.TrimSpace(goal) == "" || duration == 0 {
				if !interactive {
					return fmt.Errorf("--goal and --duration are required")
				}
				durationStr := ""
				if duration > 0 {
					durationStr = strconv.Itoa(duration)
				}
				if err := generateForm(&goal, &durationStr).Run(); err != nil {
					return err
				}
				d, err := strconv.Atoi(strings.TrimSpace(durationStr))
				if err != nil {
					return fmt.Errorf("invalid duration %q: %w", durationStr, err)
				}
				duration = d
			}

			if err := domain.ValidateGenerationInput(goal, duration); err != nil {
				return err
			}

			req := service.GenerateRequest{Goal: goal, Duration: duration}
			var (
				plan *domain.StudyPlan
				err  error
			)
			if interactive && !asJSON {
				plan, err = generateWithView(cmd.Context(), app, req, cmd.ErrOrStderr())
			} else {
				req.OnProgress = progressPrinter(cmd.ErrOrStderr())
				plan, err = app.Plans.Generate(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return export.Render(out, plan, export.FormatJSON, export.Options{})
			}

			fmt.Fprint(out, formatter.FormatPlanDetail(plan, formatter.DetailOptions{Verbose: verbose}))
			fmt.Fprintf(out, "\nSaved as %s. Mark a day done with: phasely item done %s <day>\n",
				formatter.Bold(plan.DisplayID()), plan.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "", "What you want to learn")
	cmd.Flags().IntVar(&duration, "duration", 0, fmt.Sprintf("Plan length in days (1-%d)", domain.MaxDuration))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored plan as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show descriptions and resources for every day")

	return cmd
}
