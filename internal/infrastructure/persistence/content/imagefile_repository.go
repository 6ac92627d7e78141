package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
)

type ImageFileRepository struct {
	db *database.DB
}

func NewImageFileRepository(db *database.DB) *ImageFileRepository {
	return &ImageFileRepository{db: db}
}

const fileColumns = `id, filename, alt_description, url, thumb_url`

func (r *ImageFileRepository) FindByID(ctx context.Context, id int64) (*content.ImageFileNode, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id)

	imageFile, err := scanImageFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return imageFile, nil
}

func (r *ImageFileRepository) FindAll(ctx context.Context) ([]*content.ImageFileNode, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+fileColumns+` FROM files ORDER BY filename`)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()
	return scanImageFiles(rows)
}

// FindByIDs returns the files that exist among ids, in the order of ids
func (r *ImageFileRepository) FindByIDs(ctx context.Context, ids []int64) ([]*content.ImageFileNode, error) {
	if len(ids) == 0 {
		return []*content.ImageFileNode{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + fileColumns + ` FROM files WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	found, err := scanImageFiles(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*content.ImageFileNode, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	ordered := make([]*content.ImageFileNode, 0, len(found))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered, nil
}

// Store inserts the file and fills in its generated id
func (r *ImageFileRepository) Store(ctx context.Context, imageFile *content.ImageFileNode) error {
	query := `INSERT INTO files (filename, alt_description, url, thumb_url) VALUES (?, ?, ?, ?) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, imageFile.Filename, imageFile.AltDescription,
		imageFile.URL, imageFile.ThumbURL).Scan(&imageFile.ID)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	imageFile.NodeType = "File"
	return nil
}

func (r *ImageFileRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func scanImageFile(row rowScanner) (*content.ImageFileNode, error) {
	var imageFile content.ImageFileNode
	err := row.Scan(&imageFile.ID, &imageFile.Filename, &imageFile.AltDescription, &imageFile.URL, &imageFile.ThumbURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan file: %w", err)
	}
	imageFile.NodeType = "File"
	return &imageFile, nil
}

func scanImageFiles(rows *sql.Rows) ([]*content.ImageFileNode, error) {
	var imageFiles []*content.ImageFileNode
	for rows.Next() {
		imageFile, err := scanImageFile(rows)
		if err != nil {
			return nil, err
		}
		imageFiles = append(imageFiles, imageFile)
	}
	return imageFiles, rows.Err()
}
