package cli

import (
	"fmt"
	"io"

	"github.com/DaWei8/phasely/internal/cli/formatter"
	"github.com/DaWei8/phasely/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a plan previously exported as JSON or YAML",
		Long: `Import a plan document written by 'phasely export --format json' or
'--format yaml'. Completion state is kept; the imported plan gets a new ID.
Pass - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				schema *importer.ImportSchema
				err    error
			)
			if args[0] == "-" {
				data, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("reading stdin: %w", readErr)
				}
				if asYAML {
					schema, err = importer.ParseYAML(data)
				} else {
					schema, err = importer.ParseJSON(data)
				}
			} else {
				schema, err = importer.LoadImportSchema(args[0])
			}
			if err != nil {
				return err
			}

			p, err := app.Plans.Import(cmd.Context(), schema)
			if err != nil {
				return err
			}

			prog := p.Progress()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s (%s, %d/%d done)\n",
				p.Goal, formatter.Bold(p.DisplayID()), formatter.Plural(len(p.Calendar), "item"), prog.Completed, prog.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Parse stdin as YAML instead of JSON")
	return cmd
}
