package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Open opens a connection pool to the SQLite database, creating the parent
// directory of dbPath when needed.
//
// Pragmas are set through the DSN so that every pooled connection carries
// them, not only the first one.
func Open(dbPath string) (*sql.DB, error) {
	pragmas := []string{"busy_timeout(5000)", "foreign_keys(1)"}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		pragmas = append(pragmas, "journal_mode(WAL)")
	}

	// Open database connection
	db, err := sql.Open("sqlite", dsn(dbPath, pragmas))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func dsn(dbPath string, pragmas []string) string {
	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}
	return "file:" + dbPath + "?" + strings.Join(params, "&")
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *sql.DB) error {
	provider, err := newProvider(db)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		log.Info().
			Str("migration", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("applied migration")
	}
	return nil
}

// SchemaVersion reports the applied schema version and whether embedded
// migrations are still pending.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, bool, error) {
	provider, err := newProvider(db)
	if err != nil {
		return 0, false, err
	}

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}

	pending, err := provider.HasPending(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to check pending migrations: %w", err)
	}
	return current, pending, nil
}

// HealthCheck performs a simple health check on the database
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}
