package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names. They match the names the drivers register with database/sql.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

func init() {
	// sqlx only knows "sqlite3"; modernc registers as "sqlite".
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Config struct {
	Driver          string
	DSN             string
	MaxConns        int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration
}

// Connect opens a *sqlx.DB for the configured driver and verifies connectivity with a ping.
func Connect(cfg Config) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}
	dsn, err := normalizeDSN(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 5
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(lifetime)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// normalizeDSN applies the per-driver settings the repositories rely on:
// MySQL must scan DATETIME into time.Time in UTC and report matched rows,
// SQLite needs a busy timeout and a time format it can parse back.
func normalizeDSN(driver, dsn string) (string, error) {
	switch driver {
	case DriverMySQL:
		c, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		c.ParseTime = true
		c.Loc = time.UTC
		c.ClientFoundRows = true
		return c.FormatDSN(), nil
	case DriverSQLite:
		if strings.Contains(dsn, "_time_format=") {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite", nil
	case DriverPostgres:
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}
