package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
)

// Pinger is satisfied by the database connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandlers struct {
	db          Pinger
	perfTracker *performance.Tracker
}

func NewHealthHandlers(db Pinger, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{db: db, perfTracker: perfTracker}
}

// GetHealth handles GET /health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = err.Error()
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"database": dbStatus,
		"uptime":   h.perfTracker.Uptime().String(),
	})
}
