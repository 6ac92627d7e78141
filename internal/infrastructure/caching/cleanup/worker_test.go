package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
)

type countingCache struct {
	purges atomic.Int32
}

func (c *countingCache) PurgeExpired() int {
	c.purges.Add(1)
	return 1
}

func TestWorkerPurgesOnEachTick(t *testing.T) {
	cache := &countingCache{}
	tracker := performance.NewTracker(nil)
	tracker.StartOperation("settings_save").Complete()

	worker := NewWorker(cache, tracker, logging.NewDiscardLogger(), &Config{
		CleanupInterval:  5 * time.Millisecond,
		VerboseReporting: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return cache.purges.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestWorkerDisabledWithoutInterval(t *testing.T) {
	cache := &countingCache{}
	worker := NewWorker(cache, nil, logging.NewDiscardLogger(), &Config{})

	// Returns immediately instead of blocking on a ticker
	worker.Start(context.Background())
	assert.Zero(t, cache.purges.Load())
}
