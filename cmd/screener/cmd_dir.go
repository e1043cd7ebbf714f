package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ndewijer/graham-screener/internal/app"
	"github.com/ndewijer/graham-screener/internal/nasdaq"
)

type directory interface {
	Directory(ctx context.Context, list string) ([]string, error)
}

func (c *cli) newDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "dir {nasdaq-traded|nasdaq-listed}",
		Short:     "Print a list of stock symbols",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: nasdaq.Lists(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				return runDir(cmd.Context(), c.out, a.Symbols, args[0])
			})
		},
	}
}

func runDir(ctx context.Context, out io.Writer, dir directory, list string) error {
	syms, err := dir.Directory(ctx, list)
	if err != nil {
		return err
	}
	for _, s := range syms {
		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
	}
	return nil
}
