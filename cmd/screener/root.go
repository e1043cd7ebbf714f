package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ndewijer/graham-screener/internal/app"
	"github.com/ndewijer/graham-screener/internal/config"
	"github.com/ndewijer/graham-screener/internal/logging"
	"github.com/ndewijer/graham-screener/internal/symbols"
	"github.com/ndewijer/graham-screener/internal/version"
)

var errNoSymbols = errors.New("no symbols given, pass them as arguments or with --filename")

// cli carries what every subcommand shares.
type cli struct {
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	newApp func(ctx context.Context, cfg *config.Config) (*app.App, error)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut, newApp: app.New}

	root := &cobra.Command{
		Use:   "screener",
		Short: "Graham value screener",
		Long: `screener gathers company fundamentals from Yahoo Finance and FMP and
filters them with Benjamin Graham's value investing checks.

Examples:
  screener dir nasdaq-listed > nasdaq.txt
  screener pull --filename nasdaq.txt
  screener graham -v 2 AAPL KO MSFT
  screener graham --format csv --filename watchlist.txt > result.csv`,
		Version:       version.Version + " (" + version.Commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			return logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		c.newDirCmd(),
		c.newPullCmd(),
		c.newGrahamCmd(),
		c.newServeCmd(),
		newEncryptSecretCmd(),
	)
	return root
}

// withApp builds the services for one command and closes them afterwards.
func (c *cli) withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := c.newApp(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// collectSymbols joins the positional symbols with the contents of files.
func collectSymbols(args, files []string) ([]string, error) {
	fromFiles, err := symbols.FromFiles(files...)
	if err != nil {
		return nil, err
	}
	all, err := symbols.Dedupe(append(args, fromFiles...))
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errNoSymbols
	}
	return all, nil
}

// colorEnabled reports whether ANSI styling should be written to out.
func colorEnabled(out io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
