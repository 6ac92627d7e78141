// Package database provides database helper functions
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/pkg/config"
)

// TestTursoConnection tests a Turso database connection with logging
func TestTursoConnection(ctx context.Context, databaseURL, authToken string, logger *logging.ChanneledLogger) error {
	start := time.Now()
	logger.Database().Debug("Testing Turso database connection")

	connStr := fmt.Sprintf("%s?authToken=%s", databaseURL, authToken)

	db, err := sql.Open(config.DriverLibSQL, connStr)
	if err != nil {
		logger.Database().Error("Failed to open Turso connection", "error", err.Error())
		return fmt.Errorf("failed to open connection: %w", err)
	}
	defer db.Close()

	var result int
	if err = db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		logger.Database().Error("Turso connection test query failed", "error", err.Error())
		return fmt.Errorf("connection test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("unexpected query result: %d", result)
	}

	logger.Database().Info("Turso connection test successful", "duration", time.Since(start))
	return nil
}

// CheckAndLogSlowQuery logs the query on the slow query channel when it
// exceeds the configured threshold
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	if duration > config.SlowQueryThreshold {
		logger.LogSlowQuery(query, duration)
	}
}
