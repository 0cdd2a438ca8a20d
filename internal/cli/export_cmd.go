package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// dateValue is a pflag.Value holding an optional YYYY-MM-DD date.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = dateValue{}

func (d dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d dateValue) Set(s string) error {
	if err := validateOptionalDate(s); err != nil {
		return err
	}
	if s == "" {
		*d.t = time.Time{}
		return nil
	}
	t, _ := time.Parse(dateLayout, s)
	*d.t = t
	return nil
}

func (dateValue) Type() string { return "date" }

// formatValue is a pflag.Value restricted to the export formats.
type formatValue struct {
	f *export.Format
}

var _ pflag.Value = formatValue{}

func (v formatValue) String() string { return string(*v.f) }

func (v formatValue) Set(s string) error {
	f, err := export.ParseFormat(s)
	if err != nil {
		return err
	}
	*v.f = f
	return nil
}

func (formatValue) Type() string { return "format" }

func newExportCmd(app *App) *cobra.Command {
	var (
		start   time.Time
		outPath string
	)
	format := export.FormatICS

	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export <plan-id>",
		Short: "Export a plan as a calendar file or document",
		Long: `Export a stored plan.

The ics format writes one all-day event per calendar day starting at --start
(default: the day the plan was generated). With --out - or no --out the
export is written to stdout.`,
		Example: `  phasely export 3f2a --format ics --start 2026-11-02 --out spanish.ics
  phasely export 3f2a --format md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePlan(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			opts := export.Options{StartDate: start}
			if outPath == "" || outPath == "-" {
				return export.Render(cmd.OutOrStdout(), p, format, opts)
			}

			if filepath.Ext(outPath) == "" {
				outPath += format.Extension()
			}
			if err := writeFile(outPath, func(w io.Writer) error {
				return export.Render(w, p, format, opts)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s) to %s\n", p.DisplayID(), format, outPath)
			return nil
		},
	}

	cmd.Flags().VarP(formatValue{&format}, "format", "f", "Export format: "+strings.Join(names, ", "))
	cmd.Flags().Var(dateValue{&start}, "start", "Calendar date of day 1 (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")

	return cmd
}

// writeFile renders into path, removing the file if rendering fails.
func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := render(w); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
