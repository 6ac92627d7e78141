package content

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
)

type PostMetaRepository struct {
	db *database.DB
}

func NewPostMetaRepository(db *database.DB) *PostMetaRepository {
	return &PostMetaRepository{db: db}
}

// LoadAll returns all meta rows of a post grouped by key, in insertion order
func (r *PostMetaRepository) LoadAll(ctx context.Context, postID int64) (map[string][]string, error) {
	query := `SELECT meta_key, meta_value FROM post_meta WHERE post_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query post meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string][]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan post meta: %w", err)
		}
		meta[key] = append(meta[key], value)
	}
	return meta, rows.Err()
}

func (r *PostMetaRepository) Replace(ctx context.Context, postID int64, key, value string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM post_meta WHERE post_id = ? AND meta_key = ?`), postID, key); err != nil {
		return fmt.Errorf("failed to clear post meta: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`INSERT INTO post_meta (post_id, meta_key, meta_value) VALUES (?, ?, ?)`), postID, key, value); err != nil {
		return fmt.Errorf("failed to insert post meta: %w", err)
	}
	return tx.Commit()
}

func (r *PostMetaRepository) Delete(ctx context.Context, postID int64, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM post_meta WHERE post_id = ? AND meta_key = ?`, postID, key)
	if err != nil {
		return fmt.Errorf("failed to delete post meta: %w", err)
	}
	return nil
}
