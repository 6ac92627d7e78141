package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
)

// RequestContext describes who is reading metadata. Privileged reads come
// from the admin surface; Async marks a background call from an admin page.
type RequestContext struct {
	Privileged bool
	Async      bool
}

// Intercepts reports whether metadata lookups for this request may be overridden
func (rc RequestContext) Intercepts() bool {
	return !rc.Privileged || rc.Async
}

// ThumbnailService is the default image resolver. It routes both the
// metadata lookup and the thumbnail id fallback through featured.Resolve.
type ThumbnailService struct {
	settings    SettingsReader
	posts       repositories.PostRepository
	postTypes   repositories.PostTypeRepository
	meta        repositories.PostMetaRepository
	pick        featured.Picker
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewThumbnailService(
	settings SettingsReader,
	posts repositories.PostRepository,
	postTypes repositories.PostTypeRepository,
	meta repositories.PostMetaRepository,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *ThumbnailService {
	return &ThumbnailService{
		settings:    settings,
		posts:       posts,
		postTypes:   postTypes,
		meta:        meta,
		pick:        featured.DefaultPicker,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// WithPicker replaces the random source; tests use it for deterministic draws
func (s *ThumbnailService) WithPicker(pick featured.Picker) *ThumbnailService {
	s.pick = pick
	return s
}

// LookupMeta returns the values stored under key for a post. For the
// thumbnail key, intercepted requests see a pool image when the post has none.
func (s *ThumbnailService) LookupMeta(ctx context.Context, rc RequestContext, postID int64, key string) ([]string, error) {
	meta, err := s.lookup(ctx, rc, postID, key)
	if err != nil {
		return nil, err
	}
	return meta[key], nil
}

// LookupAllMeta returns every meta key of a post, with the same interception
// as a thumbnail key lookup.
func (s *ThumbnailService) LookupAllMeta(ctx context.Context, rc RequestContext, postID int64) (map[string][]string, error) {
	return s.lookup(ctx, rc, postID, "")
}

func (s *ThumbnailService) lookup(ctx context.Context, rc RequestContext, postID int64, key string) (map[string][]string, error) {
	store := stores.MetaStoreFrom(ctx)

	if (key == "" || key == featured.ThumbnailMetaKey) && rc.Intercepts() {
		if err := s.intercept(ctx, store, postID); err != nil {
			return nil, err
		}
	}

	return s.cachedMeta(ctx, store, postID)
}

// intercept writes an override into the request cache slot of a post whose
// thumbnail is missing. The stored rows are never touched.
func (s *ThumbnailService) intercept(ctx context.Context, store *stores.MetaStore, postID int64) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to load post %d: %w", postID, err)
	}
	if post == nil {
		return nil
	}

	meta, err := s.cachedMeta(ctx, store, postID)
	if err != nil {
		return err
	}

	item, err := s.contentItem(ctx, post, meta)
	if err != nil {
		return err
	}

	result := s.Resolve(ctx, item)
	if !result.Override {
		return nil
	}

	value := strconv.FormatInt(int64(result.ImageID), 10)
	if existing := meta[featured.ThumbnailMetaKey]; len(existing) > 0 {
		existing[0] = value
	} else {
		meta[featured.ThumbnailMetaKey] = []string{value}
	}
	store.SetMeta(postID, meta)

	s.logger.Content().Debug("Default featured image assigned", "postId", postID, "imageId", result.ImageID)
	return nil
}

// cachedMeta is the ordinary cache-first metadata read
func (s *ThumbnailService) cachedMeta(ctx context.Context, store *stores.MetaStore, postID int64) (map[string][]string, error) {
	if meta, found := store.GetMeta(postID); found {
		return meta, nil
	}

	meta, err := s.meta.LoadAll(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta for post %d: %w", postID, err)
	}
	store.SetMeta(postID, meta)
	return meta, nil
}

// ThumbnailID returns the featured image of a post: the stored or
// intercepted value first, a fresh draw from the pool otherwise.
func (s *ThumbnailService) ThumbnailID(ctx context.Context, rc RequestContext, postID int64) (featured.ImageID, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("thumbnail_id")
	defer marker.Complete()

	if stores.MetaStoreFrom(ctx).Has(postID) {
		marker.AddCacheHit()
	} else {
		marker.AddCacheMiss()
	}

	values, err := s.LookupMeta(ctx, rc, postID, featured.ThumbnailMetaKey)
	if err != nil {
		marker.SetError(err)
		return 0, err
	}
	if id := FirstImageID(values); id > 0 {
		marker.SetSuccess(true)
		return id, nil
	}
	if HasThumbnailReference(values) {
		// unusable but present; the post is not eligible for a default
		marker.SetSuccess(true)
		return 0, nil
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		marker.SetError(err)
		return 0, fmt.Errorf("failed to load post %d: %w", postID, err)
	}
	if post == nil {
		marker.SetError(featured.ErrPostNotFound)
		return 0, featured.ErrPostNotFound
	}

	item, err := s.contentItem(ctx, post, nil)
	if err != nil {
		marker.SetError(err)
		return 0, err
	}

	result := s.Resolve(ctx, item)
	marker.SetSuccess(true)
	marker.AddMetadata("override", result.Override)
	s.logger.Perf().Debug("Thumbnail fallback resolved", "postId", postID, "override", result.Override, "duration", time.Since(start))
	return result.ImageID, nil
}

// ThumbnailIDs resolves a batch. Repeated ids in one batch share one answer
// and unknown posts are left out.
func (s *ThumbnailService) ThumbnailIDs(ctx context.Context, rc RequestContext, postIDs []int64) (map[int64]featured.ImageID, error) {
	resolved := make(map[int64]featured.ImageID, len(postIDs))
	seen := make(map[int64]struct{}, len(postIDs))
	for _, postID := range postIDs {
		if _, done := seen[postID]; done {
			continue
		}
		seen[postID] = struct{}{}

		id, err := s.ThumbnailID(ctx, rc, postID)
		if errors.Is(err, featured.ErrPostNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		resolved[postID] = id
	}
	return resolved, nil
}

// Resolve applies the policy to a single item. A configuration read failure
// is logged and degrades to no override.
func (s *ThumbnailService) Resolve(ctx context.Context, item featured.ContentItem) featured.ResolutionResult {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		s.logger.Settings().Error("Failed to read featured image settings", "error", err, "postId", item.ID)
		return featured.NoOverride()
	}
	return featured.Resolve(item, settings, s.pick)
}

func (s *ThumbnailService) contentItem(ctx context.Context, post *content.PostNode, meta map[string][]string) (featured.ContentItem, error) {
	postType, err := s.postTypes.FindByName(ctx, post.PostType)
	if err != nil {
		return featured.ContentItem{}, fmt.Errorf("failed to load post type %s: %w", post.PostType, err)
	}

	return featured.ContentItem{
		ID:                   post.ID,
		ContentType:          post.PostType,
		ThumbnailID:          FirstImageID(meta[featured.ThumbnailMetaKey]),
		ThumbnailUnsupported: postType == nil || !postType.SupportsThumbnail,
		ThumbnailStored:      HasThumbnailReference(meta[featured.ThumbnailMetaKey]),
	}, nil
}

// FirstImageID reads the first meta value as an image id. Empty, zero and
// non-numeric values mean no image.
func FirstImageID(values []string) featured.ImageID {
	if len(values) == 0 {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(values[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return featured.ImageID(id)
}

// HasThumbnailReference reports whether the first meta value is a stored
// reference. Only an empty value or "0" counts as missing.
func HasThumbnailReference(values []string) bool {
	if len(values) == 0 {
		return false
	}
	v := strings.TrimSpace(values[0])
	return v != "" && v != "0"
}
