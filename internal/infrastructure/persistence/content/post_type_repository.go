package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
)

type PostTypeRepository struct {
	db *database.DB
}

func NewPostTypeRepository(db *database.DB) *PostTypeRepository {
	return &PostTypeRepository{db: db}
}

const postTypeColumns = `name, label, public, supports_thumbnail`

func (r *PostTypeRepository) FindByName(ctx context.Context, name string) (*content.PostTypeNode, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postTypeColumns+` FROM post_types WHERE name = ?`, name)

	pt, err := scanPostType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pt, nil
}

func (r *PostTypeRepository) FindAll(ctx context.Context) ([]*content.PostTypeNode, error) {
	return r.query(ctx, `SELECT `+postTypeColumns+` FROM post_types ORDER BY name`)
}

// FindPublic lists the types offered in the settings checklist
func (r *PostTypeRepository) FindPublic(ctx context.Context) ([]*content.PostTypeNode, error) {
	return r.query(ctx, `SELECT `+postTypeColumns+` FROM post_types WHERE public = 1 ORDER BY name`)
}

func (r *PostTypeRepository) Store(ctx context.Context, pt *content.PostTypeNode) error {
	query := `INSERT INTO post_types (name, label, public, supports_thumbnail) VALUES (?, ?, ?, ?)
	          ON CONFLICT (name) DO UPDATE SET label = excluded.label, public = excluded.public,
	          supports_thumbnail = excluded.supports_thumbnail`

	_, err := r.db.ExecContext(ctx, query, pt.Name, pt.Label, boolToInt(pt.Public), boolToInt(pt.SupportsThumbnail))
	if err != nil {
		return fmt.Errorf("failed to store post type: %w", err)
	}
	return nil
}

func (r *PostTypeRepository) query(ctx context.Context, query string) ([]*content.PostTypeNode, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query post types: %w", err)
	}
	defer rows.Close()

	var types []*content.PostTypeNode
	for rows.Next() {
		pt, err := scanPostType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, pt)
	}
	return types, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostType(row rowScanner) (*content.PostTypeNode, error) {
	var pt content.PostTypeNode
	var public, supports int64
	if err := row.Scan(&pt.Name, &pt.Label, &public, &supports); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan post type: %w", err)
	}
	pt.Public = public != 0
	pt.SupportsThumbnail = supports != 0
	return &pt, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
