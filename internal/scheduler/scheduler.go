// Package scheduler runs the periodic watchlist refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ndewijer/graham-screener/internal/screening"
	"github.com/ndewijer/graham-screener/internal/service"
	"github.com/ndewijer/graham-screener/internal/symbols"
)

// Screener screens a batch of symbols.
type Screener interface {
	ScreenAll(ctx context.Context, syms []string, force bool) (service.Batch, error)
}

// Summary counts the outcomes of one refresh.
type Summary struct {
	RunID      string
	Pass       int
	Fail       int
	Incomplete int
	Errors     int
}

// Refresher re-screens the symbols of a watchlist file on a cron schedule,
// always fetching fresh records.
type Refresher struct {
	cron      *cron.Cron
	screener  Screener
	watchlist string
	timeout   time.Duration
}

// NewRefresher creates a Refresher for the watchlist file. Each run is
// cancelled after timeout; zero means no limit.
func NewRefresher(screener Screener, watchlist string, timeout time.Duration) *Refresher {
	logger := cronLogger{log.With().Str("component", "scheduler").Logger()}
	return &Refresher{
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		), cron.WithLogger(logger)),
		screener:  screener,
		watchlist: watchlist,
		timeout:   timeout,
	}
}

// Schedule registers the refresh with a standard five field cron spec,
// for example "0 6 * * 1-5".
func (r *Refresher) Schedule(spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		if _, err := r.RunOnce(ctx); err != nil {
			log.Error().Err(err).Str("watchlist", r.watchlist).Msg("scheduled refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return nil
}

// Next returns the time of the next scheduled run, zero when nothing is scheduled
// or the scheduler is not running.
func (r *Refresher) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Start runs the scheduler in its own goroutine.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the scheduler. The returned context is done once a running
// refresh has finished.
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}

// RunOnce reads the watchlist and screens every symbol in it.
func (r *Refresher) RunOnce(ctx context.Context) (Summary, error) {
	syms, err := symbols.FromFiles(r.watchlist)
	if err != nil {
		return Summary{}, err
	}

	start := time.Now()
	batch, err := r.screener.ScreenAll(ctx, syms, true)

	summary := Summary{RunID: batch.RunID}
	for _, res := range batch.Results {
		switch {
		case res.Err != nil:
			summary.Errors++
		case res.Verdict.Status == screening.StatusPass:
			summary.Pass++
		case res.Verdict.Status == screening.StatusFail:
			summary.Fail++
		default:
			summary.Incomplete++
		}
	}
	if err != nil {
		return summary, err
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("symbols", len(syms)).
		Int("pass", summary.Pass).
		Int("fail", summary.Fail).
		Int("incomplete", summary.Incomplete).
		Int("errors", summary.Errors).
		Dur("duration", time.Since(start)).
		Msg("watchlist refreshed")
	return summary, nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
