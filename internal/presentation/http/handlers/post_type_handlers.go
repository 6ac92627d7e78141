package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
)

type PostTypeHandlers struct {
	postTypeService *services.PostTypeService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

func NewPostTypeHandlers(postTypeService *services.PostTypeService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PostTypeHandlers {
	return &PostTypeHandlers{
		postTypeService: postTypeService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetPostTypes handles GET /api/v1/admin/post-types
func (h *PostTypeHandlers) GetPostTypes(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_post_types_request")
	defer marker.Complete()

	postTypes, err := h.postTypeService.GetAll(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"postTypes": postTypes, "count": len(postTypes)})
}

// PostPostType handles POST /api/v1/admin/post-types
func (h *PostTypeHandlers) PostPostType(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_post_type_request")
	defer marker.Complete()

	var req services.RegisterPostTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	postType, err := h.postTypeService.Register(c.Request.Context(), req)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, postType)
}
