package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/middleware"
)

// maxBatchSize bounds POST /api/v1/posts/thumbnails
const maxBatchSize = 200

// ThumbnailBatchRequest represents the request body for bulk thumbnail resolution
type ThumbnailBatchRequest struct {
	PostIDs []int64 `json:"postIds" binding:"required"`
}

// SetThumbnailRequest sets or clears a post's own featured image
type SetThumbnailRequest struct {
	ThumbnailID int64 `json:"thumbnailId"`
}

// PostHandlers contains the content read paths and admin post writes
type PostHandlers struct {
	postService      *services.PostService
	thumbnailService *services.ThumbnailService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

func NewPostHandlers(postService *services.PostService, thumbnailService *services.ThumbnailService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PostHandlers {
	return &PostHandlers{
		postService:      postService,
		thumbnailService: thumbnailService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetPost handles GET /api/v1/posts/:id
func (h *PostHandlers) GetPost(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_post_request")
	defer marker.Complete()

	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.postService.View(c.Request.Context(), middleware.GetRequestContext(c), postID)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Content().Debug("Get post request completed", "postId", postID, "thumbnailId", view.ThumbnailID, "duration", time.Since(start))
	c.JSON(http.StatusOK, view)
}

// GetPostThumbnail handles GET /api/v1/posts/:id/thumbnail
func (h *PostHandlers) GetPostThumbnail(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_post_thumbnail_request")
	defer marker.Complete()

	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	id, err := h.thumbnailService.ThumbnailID(c.Request.Context(), middleware.GetRequestContext(c), postID)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"postId": postID, "thumbnailId": id})
}

// GetPostMeta handles GET /api/v1/posts/:id/meta and its admin twin. With no
// key every meta key is returned.
func (h *PostHandlers) GetPostMeta(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_post_meta_request")
	defer marker.Complete()

	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.postService.Get(ctx, postID); err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	rc := middleware.GetRequestContext(c)
	key := c.Query("key")
	if key == "" {
		meta, err := h.thumbnailService.LookupAllMeta(ctx, rc, postID)
		if err != nil {
			marker.SetError(err)
			respondError(c, err)
			return
		}
		marker.SetSuccess(true)
		c.JSON(http.StatusOK, gin.H{"postId": postID, "meta": meta})
		return
	}

	values, err := h.thumbnailService.LookupMeta(ctx, rc, postID, key)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	if values == nil {
		values = []string{}
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"postId": postID, "key": key, "values": values})
}

// PostThumbnailBatch handles POST /api/v1/posts/thumbnails
func (h *PostHandlers) PostThumbnailBatch(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_thumbnail_batch_request")
	defer marker.Complete()

	var req ThumbnailBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if len(req.PostIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postIds array cannot be empty"})
		return
	}
	if len(req.PostIDs) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many postIds", "max": maxBatchSize})
		return
	}

	resolved, err := h.thumbnailService.ThumbnailIDs(c.Request.Context(), middleware.GetRequestContext(c), req.PostIDs)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	thumbnails := make(map[string]featured.ImageID, len(resolved))
	for postID, imageID := range resolved {
		thumbnails[strconv.FormatInt(postID, 10)] = imageID
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostThumbnailBatch request", "duration", time.Since(start), "requestedCount", len(req.PostIDs), "foundCount", len(resolved))
	c.JSON(http.StatusOK, gin.H{"thumbnails": thumbnails, "count": len(thumbnails)})
}

// PostCreatePost handles POST /api/v1/admin/posts
func (h *PostHandlers) PostCreatePost(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_create_post_request")
	defer marker.Complete()

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	post, err := h.postService.Create(c.Request.Context(), req)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, post)
}

// PutPostThumbnail handles PUT /api/v1/admin/posts/:id/thumbnail
func (h *PostHandlers) PutPostThumbnail(c *gin.Context) {
	marker := h.perfTracker.StartOperation("put_post_thumbnail_request")
	defer marker.Complete()

	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SetThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.postService.SetThumbnail(c.Request.Context(), postID, featured.ImageID(req.ThumbnailID)); err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"postId": postID, "thumbnailId": req.ThumbnailID})
}

// GetPosts handles GET /api/v1/admin/posts
func (h *PostHandlers) GetPosts(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_posts_request")
	defer marker.Complete()

	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	if posts == nil {
		posts = []*content.PostNode{}
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}
