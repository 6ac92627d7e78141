// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/container"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/caching/cleanup"
	schema "github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/database"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/security"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/server"
	"github.com/AtRiskMedia/tractstack-featured/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until shutdown
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
  random default featured image service
` + "\033[0m")

	// Step 1: Channeled logging
	log.Println("Initializing logging...")
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    config.LogToFile,
		OutputToConsole: true,
		LogDirectory:    config.LogDirectory,
		JSONFormat:      config.LogJSON,
		DefaultLevel:    logging.ParseLevel(config.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	logger.Startup().Info("Logging initialized - switching to channeled logging")

	// Step 2: Database
	if config.DBDriver == config.DriverLibSQL {
		if err := database.TestTursoConnection(ctx, config.TursoDatabaseURL, config.TursoAuthToken, logger); err != nil {
			return fmt.Errorf("turso connection test failed: %w", err)
		}
	}

	db, err := database.OpenConfigured(logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tableCreator := schema.NewTableCreator()
	if err := tableCreator.CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := tableCreator.SeedInitialContent(ctx, db); err != nil {
		return fmt.Errorf("failed to seed post types: %w", err)
	}
	logger.Startup().Info("Database ready", "driver", db.Driver)

	// Step 3: Secrets
	opts := container.DefaultOptions()
	if opts.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		opts.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not set - using an ephemeral secret, admin sessions will not survive a restart")
	}
	if opts.AdminPassword == "" {
		logger.Startup().Warn("ADMIN_PASSWORD not set - admin login is disabled")
	}

	// Step 4: Settings events
	var publisher messaging.Publisher
	var subscriber *messaging.AMQPSubscriber
	if config.AMQPURL != "" {
		amqpPublisher, err := messaging.NewAMQPPublisher(config.AMQPURL, config.AMQPExchange, logger)
		if err != nil {
			return fmt.Errorf("failed to start settings event publisher: %w", err)
		}
		publisher = amqpPublisher

		subscriber, err = messaging.NewAMQPSubscriber(config.AMQPURL, config.AMQPExchange, logger)
		if err != nil {
			amqpPublisher.Close()
			return fmt.Errorf("failed to start settings event subscriber: %w", err)
		}
	} else {
		logger.Startup().Info("AMQP_URL not set - settings events stay in-process")
	}

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(db, logger, publisher, opts)
	unsubscribe := appContainer.InvalidateOnSettingsEvent()
	defer unsubscribe()

	subscriberDone := make(chan struct{})
	if subscriber != nil {
		supervisor := messaging.NewSupervisor(func() (messaging.EventSource, error) {
			next, err := messaging.NewAMQPSubscriber(config.AMQPURL, config.AMQPExchange, logger)
			if err != nil {
				return nil, err
			}
			return next, nil
		}, logger)
		go func() {
			defer close(subscriberDone)
			supervisor.Run(ctx, subscriber, appContainer.Events.Publish)
		}()
	} else {
		close(subscriberDone)
	}

	// Step 6: Background cleanup worker
	cleanupWorker := cleanup.NewWorker(appContainer.OptionCache, appContainer.PerfTracker, logger, cleanup.NewConfig())
	go cleanupWorker.Start(ctx)

	// Step 7: HTTP server
	httpServer := server.New(server.DefaultOptions(), appContainer)
	if err := httpServer.Listen(); err != nil {
		return err
	}

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Serve()
	}()

	logger.Startup().Info("Application startup complete", "totalDuration", time.Since(start), "address", httpServer.Addr())

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	}

	select {
	case <-subscriberDone:
	case <-shutdownCtx.Done():
		logger.Shutdown().Warn("Settings event subscriber did not stop before the shutdown deadline")
	}
	if err := appContainer.Publisher.Close(); err != nil {
		logger.Shutdown().Error("Error closing settings event publisher", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures pre-container logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
