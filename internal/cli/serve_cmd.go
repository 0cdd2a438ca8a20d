package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const defaultServeAddr = "127.0.0.1:8080"

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the plan generation endpoint backed by an LLM provider",
		Long: `Serve POST /api/generate-plan on --addr.

The provider is configured with PHASELY_LLM_PROVIDER (ollama or openai),
PHASELY_LLM_ENDPOINT, PHASELY_LLM_MODEL and PHASELY_LLM_API_KEY. Point
PHASELY_ENDPOINT at this server to generate plans with it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Serve == nil {
				return fmt.Errorf("serve is not available in this build")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s (ctrl+c to stop)\n", addr)
			return app.Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "Address to listen on")
	return cmd
}
