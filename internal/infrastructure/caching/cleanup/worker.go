// Package cleanup provides the background cache maintenance worker
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
)

// ExpiringCache is a cache that can drop its expired entries on demand
type ExpiringCache interface {
	PurgeExpired() int
}

// Worker periodically purges expired option cache entries and, when
// verbose, reports per-operation timings.
type Worker struct {
	cache       ExpiringCache
	perfTracker *performance.Tracker
	logger      *logging.ChanneledLogger
	config      *Config
}

func NewWorker(cache ExpiringCache, perfTracker *performance.Tracker, logger *logging.ChanneledLogger, config *Config) *Worker {
	return &Worker{
		cache:       cache,
		perfTracker: perfTracker,
		logger:      logger,
		config:      config,
	}
}

// Start runs until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	if w.config.CleanupInterval <= 0 {
		w.logger.Cache().Warn("Cache cleanup disabled", "interval", w.config.CleanupInterval)
		return
	}

	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

func (w *Worker) performCleanup() {
	start := time.Now()
	purged := w.cache.PurgeExpired()

	if purged > 0 {
		w.logger.Cache().Info("Expired option cache entries purged", "count", purged, "duration", time.Since(start))
	}

	if !w.config.VerboseReporting || w.perfTracker == nil {
		return
	}
	for _, stat := range w.perfTracker.Stats() {
		w.logger.Perf().Info("Operation timings",
			"operation", stat.Operation,
			"count", stat.Count,
			"failures", stat.Failures,
			"slow", stat.SlowCount,
			"avg", stat.AverageTime,
			"max", stat.MaxTime,
			"cacheHitRate", stat.CacheHitRate)
	}
}
