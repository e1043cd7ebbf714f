package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/graham-screener/internal/app"
	"github.com/ndewijer/graham-screener/internal/model"
)

type loader interface {
	Load(ctx context.Context, symbol string, force bool) (model.Fundamentals, error)
}

func (c *cli) newPullCmd() *cobra.Command {
	var (
		files []string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "pull [symbols...]",
		Short: "Gather fundamental data into the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			syms, err := collectSymbols(args, files)
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				return runPull(cmd.Context(), c.out, a.Fundamentals, syms, force)
			})
		},
	}

	cmd.Flags().StringSliceVar(&files, "filename", nil, "file containing a list of stock symbols (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing data")
	return cmd
}

// runPull loads every symbol in turn. A failing symbol does not stop the
// others; the command fails at the end when any symbol failed.
func runPull(ctx context.Context, out io.Writer, l loader, syms []string, force bool) error {
	failed := 0
	for _, sym := range syms {
		fmt.Fprintf(out, " Fetching fundamental data for %s\n", sym)
		if _, err := l.Load(ctx, sym, force); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			log.Error().Err(err).Str("symbol", sym).Msg("pull failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d symbols could not be pulled", failed, len(syms))
	}
	return nil
}
