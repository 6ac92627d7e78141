// Package repositories defines the repository interfaces for content entities
// and persisted options. These abstract the persistence details so the
// application layer stays decoupled from the database.
package repositories

import (
	"context"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
)

// OptionRepository is the generic key-value settings API
type OptionRepository interface {
	// Get returns the raw stored value; found is false when the option was never set.
	Get(ctx context.Context, name string) (value []byte, found bool, err error)
	// Set replaces the stored value.
	Set(ctx context.Context, name string, value []byte) error
}

type PostRepository interface {
	FindByID(ctx context.Context, id int64) (*content.PostNode, error)
	FindAll(ctx context.Context) ([]*content.PostNode, error)
	Store(ctx context.Context, post *content.PostNode) error
}

// PostMetaRepository stores post metadata as multi-valued keys
type PostMetaRepository interface {
	// LoadAll returns every meta key for the post, as the metadata cache holds it.
	LoadAll(ctx context.Context, postID int64) (map[string][]string, error)
	// Replace sets key to a single value, removing previous values.
	Replace(ctx context.Context, postID int64, key, value string) error
	Delete(ctx context.Context, postID int64, key string) error
}

type PostTypeRepository interface {
	FindByName(ctx context.Context, name string) (*content.PostTypeNode, error)
	FindAll(ctx context.Context) ([]*content.PostTypeNode, error)
	FindPublic(ctx context.Context) ([]*content.PostTypeNode, error)
	Store(ctx context.Context, postType *content.PostTypeNode) error
}

type ImageFileRepository interface {
	FindByID(ctx context.Context, id int64) (*content.ImageFileNode, error)
	FindAll(ctx context.Context) ([]*content.ImageFileNode, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*content.ImageFileNode, error)
	Store(ctx context.Context, imageFile *content.ImageFileNode) error
	Delete(ctx context.Context, id int64) error
}
