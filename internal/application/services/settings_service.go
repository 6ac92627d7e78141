// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
)

// SettingsReader is what the resolver needs from the configuration store
type SettingsReader interface {
	Settings(ctx context.Context) (featured.Settings, error)
}

// SaveRequest is one submission of the settings form
type SaveRequest struct {
	// PoolJSON is the hidden field value, a JSON array of image ids
	PoolJSON     string   `json:"imagePool"`
	ContentTypes []string `json:"contentTypes" validate:"dive,max=64"`
}

// SaveResult reports what was persisted
type SaveResult struct {
	Pool         featured.ImagePool `json:"imagePool"`
	ContentTypes []string           `json:"contentTypes"`
	PoolUpdated  bool               `json:"poolUpdated"`
}

// SettingsService is the configuration store for the default image feature
type SettingsService struct {
	options     repositories.OptionRepository
	publisher   messaging.Publisher
	source      string
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSettingsService creates the configuration store. source identifies this
// instance on published change events.
func NewSettingsService(options repositories.OptionRepository, publisher messaging.Publisher, source string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SettingsService {
	return &SettingsService{
		options:     options,
		publisher:   publisher,
		source:      source,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetImagePool returns the stored pool; empty when never set or unreadable
func (s *SettingsService) GetImagePool(ctx context.Context) (featured.ImagePool, error) {
	raw, found, err := s.options.Get(ctx, featured.OptionImagePool)
	if err != nil {
		return featured.ImagePool{}, fmt.Errorf("failed to read image pool: %w", err)
	}
	if !found {
		return featured.ImagePool{}, nil
	}

	pool, ok := featured.ParsePool(raw)
	if !ok {
		s.logger.Settings().Warn("Stored image pool is not a JSON array, treating as empty")
	}
	return pool, nil
}

// SetImagePool replaces the pool with the coerced ids and returns what was stored
func (s *SettingsService) SetImagePool(ctx context.Context, ids []any) (featured.ImagePool, error) {
	pool := featured.CoercePool(ids)
	if err := s.writePool(ctx, pool); err != nil {
		return nil, err
	}
	s.notify(ctx, featured.OptionImagePool)
	return pool, nil
}

func (s *SettingsService) writePool(ctx context.Context, pool featured.ImagePool) error {
	encoded, err := json.Marshal(pool.Ints())
	if err != nil {
		return fmt.Errorf("failed to encode image pool: %w", err)
	}
	if err := s.options.Set(ctx, featured.OptionImagePool, encoded); err != nil {
		return fmt.Errorf("failed to store image pool: %w", err)
	}
	return nil
}

// GetEnabledContentTypes returns the enabled type names; empty when unset
func (s *SettingsService) GetEnabledContentTypes(ctx context.Context) (featured.ContentTypes, error) {
	raw, found, err := s.options.Get(ctx, featured.OptionEnabledContentTypes)
	if err != nil {
		return featured.NewContentTypes(), fmt.Errorf("failed to read enabled content types: %w", err)
	}
	if !found {
		return featured.NewContentTypes(), nil
	}
	return featured.ParseContentTypes(raw), nil
}

// SetEnabledContentTypes replaces the enabled set with the sanitized names
func (s *SettingsService) SetEnabledContentTypes(ctx context.Context, names []string) (featured.ContentTypes, error) {
	types, err := s.writeContentTypes(ctx, names)
	if err != nil {
		return featured.NewContentTypes(), err
	}
	s.notify(ctx, featured.OptionEnabledContentTypes)
	return types, nil
}

func (s *SettingsService) writeContentTypes(ctx context.Context, names []string) (featured.ContentTypes, error) {
	types := featured.NewContentTypes(featured.SanitizeContentTypes(names)...)
	encoded, err := json.Marshal(types.Names())
	if err != nil {
		return featured.NewContentTypes(), fmt.Errorf("failed to encode content types: %w", err)
	}
	if err := s.options.Set(ctx, featured.OptionEnabledContentTypes, encoded); err != nil {
		return featured.NewContentTypes(), fmt.Errorf("failed to store content types: %w", err)
	}
	return types, nil
}

// Settings reads both values for one resolution
func (s *SettingsService) Settings(ctx context.Context) (featured.Settings, error) {
	pool, err := s.GetImagePool(ctx)
	if err != nil {
		return featured.Settings{}, err
	}
	types, err := s.GetEnabledContentTypes(ctx)
	if err != nil {
		return featured.Settings{}, err
	}
	return featured.Settings{Pool: pool, ContentTypes: types}, nil
}

// Save applies a settings form submission. A pool field that is not a JSON
// array leaves the stored pool as it was; the content types are always
// replaced, so an empty selection clears them.
func (s *SettingsService) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("settings_save")
	defer marker.Complete()

	if err := requestValidator().Struct(req); err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("%w: %v", featured.ErrInvalidRequest, err)
	}

	raw := strings.TrimSpace(req.PoolJSON)
	if raw == "" {
		raw = "[]"
	}

	result := &SaveResult{}
	changed := make([]string, 0, 2)

	if pool, ok := featured.ParsePoolJSON(raw); ok {
		if err := s.writePool(ctx, pool); err != nil {
			marker.SetError(err)
			return nil, err
		}
		result.Pool = pool
		result.PoolUpdated = true
		changed = append(changed, featured.OptionImagePool)
	} else {
		s.logger.Settings().Warn("Ignoring image pool that is not a JSON array", "value", truncate(raw, 120))
		pool, err := s.GetImagePool(ctx)
		if err != nil {
			marker.SetError(err)
			return nil, err
		}
		result.Pool = pool
	}

	types, err := s.writeContentTypes(ctx, req.ContentTypes)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	result.ContentTypes = types.Names()
	changed = append(changed, featured.OptionEnabledContentTypes)

	s.notify(ctx, changed...)

	marker.SetSuccess(true)
	s.logger.Settings().Info("Settings saved",
		"poolSize", len(result.Pool),
		"poolUpdated", result.PoolUpdated,
		"contentTypes", result.ContentTypes,
		"duration", time.Since(start))
	return result, nil
}

func (s *SettingsService) notify(ctx context.Context, options ...string) {
	if s.publisher == nil {
		return
	}
	event := messaging.NewSettingsEvent(s.source, options...)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Messaging().Error("Failed to publish settings event", "error", err, "options", options)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
