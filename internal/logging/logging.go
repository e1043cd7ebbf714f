// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// aliases accepts the level names used in older configuration files.
var aliases = map[string]string{
	"warning":  "warn",
	"critical": "error",
}

// ParseLevel converts a configured level name into a zerolog level.
// An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// New builds a logger writing to w. Pretty output uses the console writer.
func New(w io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Setup replaces the global logger. Logs go to stderr so command output on
// stdout stays clean.
func Setup(level string, pretty bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)
	log.Logger = New(os.Stderr, lvl, pretty)
	return nil
}
