package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/graham-screener/internal/app"
	"github.com/ndewijer/graham-screener/internal/report"
	"github.com/ndewijer/graham-screener/internal/service"
)

type batchScreener interface {
	ScreenAll(ctx context.Context, syms []string, force bool) (service.Batch, error)
}

func (c *cli) newGrahamCmd() *cobra.Command {
	var (
		files     []string
		force     bool
		verbosity int
		format    string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "graham [symbols...]",
		Short: "Filter stocks by Graham analysis",
		Long: `Screen every symbol against the Graham checks.

Verbosity selects what is printed:
  1  passing companies
  2  also failing companies
  3  also incomplete data and fetch errors`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbosity < 1 || verbosity > 5 {
				return fmt.Errorf("verbosity must be between 1 and 5, got %d", verbosity)
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			syms, err := collectSymbols(args, files)
			if err != nil {
				return err
			}

			w := report.NewWriter(c.out, report.Options{
				Color:     f == report.FormatText && colorEnabled(c.out, noColor),
				Verbosity: verbosity,
				Format:    f,
			})
			return c.withApp(cmd.Context(), func(a *app.App) error {
				return runGraham(cmd.Context(), w, a.Screening, syms, force)
			})
		},
	}

	cmd.Flags().StringSliceVar(&files, "filename", nil, "file containing a list of stock symbols (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing data")
	cmd.Flags().IntVarP(&verbosity, "verbose", "v", report.VerbosityPass, "verbosity level (1 to 5)")
	cmd.Flags().StringVar(&format, "format", string(report.FormatText), "output format: text, csv or json")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	return cmd
}

func runGraham(ctx context.Context, w *report.Writer, s batchScreener, syms []string, force bool) error {
	batch, err := s.ScreenAll(ctx, syms, force)
	for _, res := range batch.Results {
		if res.Err != nil {
			if werr := w.WriteError(res.Symbol, res.Err); werr != nil {
				return werr
			}
			continue
		}
		if werr := w.WriteVerdict(res.Verdict); werr != nil {
			return werr
		}
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}
