package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
)

// ImageFileHandlers contains all media library HTTP handlers
type ImageFileHandlers struct {
	imageFileService *services.ImageFileService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

func NewImageFileHandlers(imageFileService *services.ImageFileService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ImageFileHandlers {
	return &ImageFileHandlers{
		imageFileService: imageFileService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetFiles handles GET /api/v1/admin/files
func (h *ImageFileHandlers) GetFiles(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_files_request")
	defer marker.Complete()

	files, err := h.imageFileService.GetAll(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"files": files, "count": len(files)})
}

// PostFile handles POST /api/v1/admin/files
func (h *ImageFileHandlers) PostFile(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_file_request")
	defer marker.Complete()

	var req services.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	file, err := h.imageFileService.Upload(c.Request.Context(), req)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostFile request", "duration", time.Since(start), "fileId", file.ID)
	c.JSON(http.StatusCreated, file)
}

// DeleteFile handles DELETE /api/v1/admin/files/:id
func (h *ImageFileHandlers) DeleteFile(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_file_request")
	defer marker.Complete()

	fileID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.imageFileService.Delete(c.Request.Context(), fileID); err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
