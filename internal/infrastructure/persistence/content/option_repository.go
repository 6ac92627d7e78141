// Package content provides the content host repositories
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
)

// OptionRepository persists named option values, cache-first on reads
type OptionRepository struct {
	db    *database.DB
	cache interfaces.OptionCache
}

func NewOptionRepository(db *database.DB, cache interfaces.OptionCache) *OptionRepository {
	return &OptionRepository{
		db:    db,
		cache: cache,
	}
}

func (r *OptionRepository) Get(ctx context.Context, name string) ([]byte, bool, error) {
	if value, found := r.cache.GetOption(name); found {
		return value, true, nil
	}

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load option %s: %w", name, err)
	}

	r.cache.SetOption(name, []byte(value))
	return []byte(value), true, nil
}

func (r *OptionRepository) Set(ctx context.Context, name string, value []byte) error {
	query := `INSERT INTO options (name, value, updated) VALUES (?, ?, ?)
	          ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated = excluded.updated`

	_, err := r.db.ExecContext(ctx, query, name, string(value), time.Now().UTC())
	if err != nil {
		r.cache.InvalidateOption(name)
		return fmt.Errorf("failed to save option %s: %w", name, err)
	}

	r.cache.SetOption(name, value)
	return nil
}
