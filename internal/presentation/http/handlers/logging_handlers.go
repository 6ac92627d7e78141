package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

type LogLevelRequest struct {
	Channel string `json:"channel" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

// LoggingHandlers exposes per-channel log levels to administrators
type LoggingHandlers struct {
	logger *logging.ChanneledLogger
}

func NewLoggingHandlers(logger *logging.ChanneledLogger) *LoggingHandlers {
	return &LoggingHandlers{logger: logger}
}

// GetLogLevels handles GET /api/v1/admin/log-levels
func (h *LoggingHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// PutLogLevel handles PUT /api/v1/admin/log-levels
func (h *LoggingHandlers) PutLogLevel(c *gin.Context) {
	var req LogLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	level := logging.ParseLevel(req.Level)
	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.System().Info("Log level changed", "channel", req.Channel, "level", level.String())
	c.JSON(http.StatusOK, gin.H{"channel": req.Channel, "level": level.String()})
}
