// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/google/uuid"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	domainservices "github.com/AtRiskMedia/tractstack-featured/internal/domain/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/media"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-featured/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	SettingsService  *services.SettingsService
	ThumbnailService *services.ThumbnailService
	PostService      *services.PostService
	PostTypeService  *services.PostTypeService
	ImageFileService *services.ImageFileService
	AuthService      *services.AuthService

	// Domain Services
	PoolIntegrity *domainservices.PoolIntegrityService

	// Infrastructure Dependencies
	DB          *database.DB
	OptionCache *stores.OptionStore
	Publisher   messaging.Publisher
	Events      *messaging.LocalBroadcaster
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker

	// InstanceID tags settings events published by this process
	InstanceID string
	MediaDir   string
	MediaURL   string
}

// Options carries the values the container needs from configuration
type Options struct {
	JWTSecret     string
	AdminPassword string
	MediaDir      string
	MediaURL      string
}

// DefaultOptions reads pkg/config
func DefaultOptions() Options {
	return Options{
		JWTSecret:     config.JWTSecret,
		AdminPassword: config.AdminPassword,
		MediaDir:      config.MediaDir,
		MediaURL:      config.MediaURLPrefix,
	}
}

// NewContainer wires repositories, caches and services around db. When
// publisher is nil, settings events stay in-process.
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, publisher messaging.Publisher, opts Options) *Container {
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	optionCache := stores.NewOptionStore(config.OptionCacheTTL, logger)
	events := messaging.NewLocalBroadcaster(logger)
	if publisher == nil {
		publisher = events
	}
	instanceID := uuid.NewString()

	optionRepo := content.NewOptionRepository(db, optionCache)
	postRepo := content.NewPostRepository(db)
	postMetaRepo := content.NewPostMetaRepository(db)
	postTypeRepo := content.NewPostTypeRepository(db)
	imageFileRepo := content.NewImageFileRepository(db)

	processor := media.NewImageProcessor(opts.MediaDir, opts.MediaURL, config.ThumbnailSize, config.MaxUploadBytes)

	settingsService := services.NewSettingsService(optionRepo, publisher, instanceID, logger, perfTracker)
	thumbnailService := services.NewThumbnailService(settingsService, postRepo, postTypeRepo, postMetaRepo, logger, perfTracker)

	return &Container{
		SettingsService:  settingsService,
		ThumbnailService: thumbnailService,
		PostService:      services.NewPostService(postRepo, postTypeRepo, postMetaRepo, imageFileRepo, thumbnailService, logger),
		PostTypeService:  services.NewPostTypeService(postTypeRepo, logger),
		ImageFileService: services.NewImageFileService(imageFileRepo, processor, logger),
		AuthService:      services.NewAuthService(opts.JWTSecret, opts.AdminPassword, config.AdminTokenTTL, config.NonceTTL, logger),

		PoolIntegrity: domainservices.NewPoolIntegrityService(),

		DB:          db,
		OptionCache: optionCache,
		Publisher:   publisher,
		Events:      events,
		Logger:      logger,
		PerfTracker: perfTracker,
		InstanceID:  instanceID,
		MediaDir:    opts.MediaDir,
		MediaURL:    opts.MediaURL,
	}
}

// InvalidateOnSettingsEvent drops cached options when any instance changes them
func (c *Container) InvalidateOnSettingsEvent() func() {
	return c.Events.Subscribe(c.HandleSettingsEvent)
}
