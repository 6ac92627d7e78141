// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/pkg/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// DB represents a wrapper around the standard SQL database connection that
// knows its driver's placeholder dialect.
type DB struct {
	*sql.DB
	Driver string
	logger *logging.ChanneledLogger
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Database().Debug("Creating new database connection", "driverName", driverName)

	if driverName == config.DriverSQLite {
		if err := ensureSQLiteDir(dataSourceName); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		return nil, err
	}

	if err = db.Ping(); err != nil {
		logger.Database().Error("Database ping failed", "error", err.Error(), "driverName", driverName)
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)

	logger.Database().Info("Database connection established", "driverName", driverName, "duration", time.Since(start))
	return &DB{DB: db, Driver: driverName, logger: logger}, nil
}

// OpenConfigured opens the database selected by pkg/config. A Turso URL wins
// over a local sqlite file when the libsql driver is chosen.
func OpenConfigured(logger *logging.ChanneledLogger) (*DB, error) {
	driver := config.DBDriver
	dsn := config.DBDSN

	switch driver {
	case config.DriverLibSQL:
		if config.TursoDatabaseURL == "" {
			return nil, fmt.Errorf("TURSO_DATABASE_URL is required for the libsql driver")
		}
		dsn = config.TursoDatabaseURL
		if config.TursoAuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.TursoDatabaseURL, config.TursoAuthToken)
		}
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return NewConnection(driver, dsn, logger)
}

// Rebind rewrites ? placeholders into the driver's native form.
func (db *DB) Rebind(query string) string {
	if db.Driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ExecContext runs a statement with placeholder rebinding and slow query logging.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := db.DB.ExecContext(ctx, db.Rebind(query), args...)
	db.checkSlow(query, time.Since(start))
	return res, err
}

// QueryContext runs a query with placeholder rebinding and slow query logging.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.DB.QueryContext(ctx, db.Rebind(query), args...)
	db.checkSlow(query, time.Since(start))
	return rows, err
}

// QueryRowContext runs a single-row query with placeholder rebinding.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := db.DB.QueryRowContext(ctx, db.Rebind(query), args...)
	db.checkSlow(query, time.Since(start))
	return row
}

func (db *DB) checkSlow(query string, duration time.Duration) {
	if db.logger != nil {
		CheckAndLogSlowQuery(db.logger, query, duration)
	}
}

func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.HasPrefix(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// OpenMemory opens a private in-memory sqlite database. Used by tests and
// local experiments. The database lives as long as its one connection, so
// that connection is never idled out or recycled.
func OpenMemory(name string, logger *logging.ChanneledLogger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", url.PathEscape(name))
	db, err := NewConnection(config.DriverSQLite, dsn, logger)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}
