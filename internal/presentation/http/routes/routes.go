// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/container"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/templates"
	"github.com/AtRiskMedia/tractstack-featured/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(config.AllowedOrigins))
	r.Use(middleware.MetaCache())

	r.SetHTMLTemplate(template.Must(templates.Load()))
	r.Static(container.MediaURL, container.MediaDir)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, config.SecureCookies, container.Logger, container.PerfTracker)
	settingsHandlers := handlers.NewSettingsHandlers(
		container.SettingsService,
		container.PostTypeService,
		container.ImageFileService,
		container.AuthService,
		container.PoolIntegrity,
		container.Logger,
		container.PerfTracker,
	)
	postHandlers := handlers.NewPostHandlers(container.PostService, container.ThumbnailService, container.Logger, container.PerfTracker)
	postTypeHandlers := handlers.NewPostTypeHandlers(container.PostTypeService, container.Logger, container.PerfTracker)
	imageFileHandlers := handlers.NewImageFileHandlers(container.ImageFileService, container.Logger, container.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(container.DB, container.PerfTracker)
	loggingHandlers := handlers.NewLoggingHandlers(container.Logger)

	r.GET("/health", healthHandlers.GetHealth)

	// Server-rendered admin pages
	r.GET("/admin/login", authHandlers.GetLoginPage)
	r.POST("/admin/login", authHandlers.PostLoginForm)
	r.POST("/admin/logout", authHandlers.PostLogoutForm)

	adminPages := r.Group("/admin")
	adminPages.Use(middleware.Privileged(), middleware.RequireAdmin(container.AuthService, "/admin/login"))
	{
		adminPages.GET("/settings", settingsHandlers.GetSettingsPage)
		adminPages.POST("/settings", settingsHandlers.PostSettingsForm)
	}

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.GET("/status", authHandlers.GetAuthStatus)
		}

		// Public read path
		posts := api.Group("/posts")
		{
			posts.POST("/thumbnails", postHandlers.PostThumbnailBatch)
			posts.GET("/:id", postHandlers.GetPost)
			posts.GET("/:id/thumbnail", postHandlers.GetPostThumbnail)
			posts.GET("/:id/meta", postHandlers.GetPostMeta)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.Privileged(), middleware.RequireAdmin(container.AuthService, ""))
		{
			admin.GET("/settings", settingsHandlers.GetSettings)
			admin.PUT("/settings", settingsHandlers.PutSettings)

			admin.GET("/post-types", postTypeHandlers.GetPostTypes)
			admin.POST("/post-types", postTypeHandlers.PostPostType)

			admin.GET("/files", imageFileHandlers.GetFiles)
			admin.POST("/files", imageFileHandlers.PostFile)
			admin.DELETE("/files/:id", imageFileHandlers.DeleteFile)

			admin.GET("/posts", postHandlers.GetPosts)
			admin.POST("/posts", postHandlers.PostCreatePost)
			admin.PUT("/posts/:id/thumbnail", postHandlers.PutPostThumbnail)
			admin.GET("/posts/:id", postHandlers.GetPost)
			admin.GET("/posts/:id/meta", postHandlers.GetPostMeta)

			admin.GET("/log-levels", loggingHandlers.GetLogLevels)
			admin.PUT("/log-levels", loggingHandlers.PutLogLevel)
		}
	}

	return r
}
