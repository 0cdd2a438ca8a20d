package cli

import (
	"context"
	"time"

	"github.com/DaWei8/phasely/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and environment hooks used by CLI commands.
type App struct {
	Plans service.PlanService

	// Serve runs the generation endpoint on addr until ctx is cancelled.
	// Nil when the binary was built without a server.
	Serve func(ctx context.Context, addr string) error

	// IsInteractive reports whether stdin/stdout are attached to a terminal.
	IsInteractive func() bool

	// Now is overridable for deterministic output in tests.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "phasely" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "phasely",
		Short:         "Turn a learning goal into a day-by-day study calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(app),
		newPlansCmd(app),
		newItemCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newServeCmd(app),
	)

	return root
}
