package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
)

type PostRepository struct {
	db *database.DB
}

func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*content.PostNode, error) {
	query := `SELECT id, post_type, title, slug, created FROM posts WHERE id = ?`

	var post content.PostNode
	err := r.db.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.PostType, &post.Title, &post.Slug, &post.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]*content.PostNode, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, post_type, title, slug, created FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*content.PostNode
	for rows.Next() {
		var post content.PostNode
		if err := rows.Scan(&post.ID, &post.PostType, &post.Title, &post.Slug, &post.Created); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// Store inserts the post and fills in its generated id
func (r *PostRepository) Store(ctx context.Context, post *content.PostNode) error {
	if post.Created.IsZero() {
		post.Created = time.Now().UTC()
	}

	query := `INSERT INTO posts (post_type, title, slug, created) VALUES (?, ?, ?, ?) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, post.PostType, post.Title, post.Slug, post.Created).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}
