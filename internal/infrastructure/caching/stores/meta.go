package stores

import (
	"context"
	"sync"
)

// MetaStore is the per-request post metadata cache: post id, then meta key,
// then the stored values. One store lives for one HTTP request.
type MetaStore struct {
	posts map[int64]map[string][]string
	mu    sync.RWMutex
}

func NewMetaStore() *MetaStore {
	return &MetaStore{posts: make(map[int64]map[string][]string)}
}

// GetMeta returns a copy of everything cached for a post
func (s *MetaStore) GetMeta(postID int64) (map[string][]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, exists := s.posts[postID]
	if !exists {
		return nil, false
	}
	return cloneMeta(meta), true
}

// Has reports whether the post's metadata is already cached
func (s *MetaStore) Has(postID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.posts[postID]
	return exists
}

// SetMeta replaces the cached metadata of a post
func (s *MetaStore) SetMeta(postID int64, meta map[string][]string) {
	s.mu.Lock()
	s.posts[postID] = cloneMeta(meta)
	s.mu.Unlock()
}

func (s *MetaStore) DeleteMeta(postID int64) {
	s.mu.Lock()
	delete(s.posts, postID)
	s.mu.Unlock()
}

func cloneMeta(meta map[string][]string) map[string][]string {
	out := make(map[string][]string, len(meta))
	for key, values := range meta {
		out[key] = append([]string(nil), values...)
	}
	return out
}

type metaStoreKey struct{}

// WithMetaStore attaches a request-scoped store to ctx
func WithMetaStore(ctx context.Context, store *MetaStore) context.Context {
	return context.WithValue(ctx, metaStoreKey{}, store)
}

// MetaStoreFrom returns the store carried by ctx, or a fresh one for
// callers outside an HTTP request.
func MetaStoreFrom(ctx context.Context) *MetaStore {
	if store, ok := ctx.Value(metaStoreKey{}).(*MetaStore); ok && store != nil {
		return store
	}
	return NewMetaStore()
}
