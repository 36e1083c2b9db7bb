package database

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/trezcool/tasktutor/fs"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	sqliteMemory = ":memory:"
)

// driverDSN maps a store URL to a database/sql driver and its DSN.
// "sqlite://path/to/file.db" opens a file, "sqlite://" or "sqlite://:memory:" an in-memory database.
func driverDSN(storeURL string) (string, string, error) {
	scheme := strings.SplitN(storeURL, ":", 2)[0]
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, storeURL, nil
	case "sqlite", "sqlite3":
		dsn := strings.TrimPrefix(strings.TrimPrefix(storeURL, scheme+":"), "//")
		if dsn == "" {
			dsn = sqliteMemory
		}
		return DriverSQLite, dsn, nil
	default:
		return "", "", errors.Errorf("unsupported database scheme %q", scheme)
	}
}

// Open connects to a postgres or sqlite store URL and waits for the database to be ready.
func Open(ctx context.Context, storeURL string) (*sqlx.DB, error) {
	driver, dsn, err := driverDSN(storeURL)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == DriverSQLite {
		// each connection of an in-memory sqlite database is a distinct database
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "enabling foreign keys")
		}
	}
	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func dialect(db *sqlx.DB) string {
	if db.DriverName() == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// RunMigrations runs a goose command (up, down, status, ...) over the embedded migrations.
func RunMigrations(ctx context.Context, db *sqlx.DB, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(dialect(db)); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	return goose.RunContext(ctx, command, db.DB, appfs.MigrationsDir, args...)
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	if err := RunMigrations(ctx, db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
