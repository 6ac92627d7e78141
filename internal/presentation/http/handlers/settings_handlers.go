package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	domainservices "github.com/AtRiskMedia/tractstack-featured/internal/domain/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/middleware"
)

// Settings form field names
const (
	fieldImagePool = "image_pool"
	fieldPostTypes = "post_types[]"
	fieldNonce     = "_nonce"
	fieldSubmit    = "rdfi_submit"
	nonceHeader    = "X-Form-Nonce"
)

// SettingsUpdateRequest is the JSON save body. ImagePool may be an array of
// ids or a string holding one; when omitted the stored pool is kept.
type SettingsUpdateRequest struct {
	ImagePool    json.RawMessage `json:"imagePool"`
	ContentTypes []string        `json:"contentTypes"`
	Nonce        string          `json:"nonce"`
}

type postTypeChoice struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type libraryChoice struct {
	File     *content.ImageFileNode
	Selected bool
}

type settingsPage struct {
	Pool         featured.ImagePool
	ContentTypes []string
	Previews     []*content.ImageFileNode
	Library      []libraryChoice
	PostTypes    []postTypeChoice
	Integrity    domainservices.IntegrityReport
	Nonce        string
	Updated      bool
}

// SettingsHandlers serves the default image settings page and API
type SettingsHandlers struct {
	settingsService  *services.SettingsService
	postTypeService  *services.PostTypeService
	imageFileService *services.ImageFileService
	authService      *services.AuthService
	integrity        *domainservices.PoolIntegrityService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

func NewSettingsHandlers(
	settingsService *services.SettingsService,
	postTypeService *services.PostTypeService,
	imageFileService *services.ImageFileService,
	authService *services.AuthService,
	integrity *domainservices.PoolIntegrityService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *SettingsHandlers {
	return &SettingsHandlers{
		settingsService:  settingsService,
		postTypeService:  postTypeService,
		imageFileService: imageFileService,
		authService:      authService,
		integrity:        integrity,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

func (h *SettingsHandlers) buildPage(ctx context.Context) (*settingsPage, error) {
	settings, err := h.settingsService.Settings(ctx)
	if err != nil {
		return nil, err
	}
	previews, err := h.imageFileService.GetPoolPreviews(ctx, settings.Pool)
	if err != nil {
		return nil, err
	}
	library, err := h.imageFileService.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	registered, err := h.postTypeService.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	postTypes, err := h.postTypeService.Selectable(ctx)
	if err != nil {
		return nil, err
	}
	nonce, err := h.authService.IssueNonce(services.SettingsNonceAction)
	if err != nil {
		return nil, err
	}

	page := &settingsPage{
		Pool:         settings.Pool,
		ContentTypes: settings.ContentTypes.Names(),
		Previews:     previews,
		Library:      make([]libraryChoice, 0, len(library)),
		PostTypes:    make([]postTypeChoice, 0, len(postTypes)),
		Integrity:    h.integrity.Check(settings, library, registered),
		Nonce:        nonce,
	}
	for _, file := range library {
		page.Library = append(page.Library, libraryChoice{
			File:     file,
			Selected: settings.Pool.Contains(featured.ImageID(file.ID)),
		})
	}
	for _, pt := range postTypes {
		page.PostTypes = append(page.PostTypes, postTypeChoice{
			Name:    pt.Name,
			Label:   pt.Label,
			Checked: settings.ContentTypes.Has(pt.Name),
		})
	}
	return page, nil
}

// GetSettingsPage handles GET /admin/settings
func (h *SettingsHandlers) GetSettingsPage(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_settings_page")
	defer marker.Complete()

	page, err := h.buildPage(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		h.logger.Settings().Error("Failed to build settings page", "error", err, "requestId", middleware.GetRequestID(c))
		c.String(http.StatusInternalServerError, "Unable to load settings")
		return
	}
	page.Updated = c.Query("updated") == "1"

	marker.SetSuccess(true)
	c.HTML(http.StatusOK, "settings.html", page)
}

// PostSettingsForm handles POST /admin/settings. Submissions without the
// submit field or a valid nonce are ignored.
func (h *SettingsHandlers) PostSettingsForm(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_settings_form")
	defer marker.Complete()

	if _, submitted := c.GetPostForm(fieldSubmit); !submitted {
		c.String(http.StatusForbidden, "Nothing to save")
		return
	}
	if err := h.authService.CheckNonce(c.PostForm(fieldNonce), services.SettingsNonceAction); err != nil {
		marker.SetError(err)
		c.String(http.StatusForbidden, "The link you followed has expired. Reload the settings page and try again.")
		return
	}

	req := services.SaveRequest{
		PoolJSON:     c.DefaultPostForm(fieldImagePool, "[]"),
		ContentTypes: c.PostFormArray(fieldPostTypes),
	}
	if _, err := h.settingsService.Save(c.Request.Context(), req); err != nil {
		marker.SetError(err)
		h.logger.Settings().Error("Failed to save settings form", "error", err, "requestId", middleware.GetRequestID(c))
		c.String(statusFor(err), "Unable to save settings")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostSettingsForm request", "duration", time.Since(start), "success", true)
	c.Redirect(http.StatusSeeOther, "/admin/settings?updated=1")
}

// GetSettings handles GET /api/v1/admin/settings
func (h *SettingsHandlers) GetSettings(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_settings_request")
	defer marker.Complete()

	page, err := h.buildPage(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"imagePool":    page.Pool,
		"contentTypes": page.ContentTypes,
		"previews":     page.Previews,
		"postTypes":    page.PostTypes,
		"integrity":    page.Integrity,
		"nonce":        page.Nonce,
	})
}

// PutSettings handles PUT /api/v1/admin/settings
func (h *SettingsHandlers) PutSettings(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("put_settings_request")
	defer marker.Complete()

	var req SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	nonce := c.GetHeader(nonceHeader)
	if nonce == "" {
		nonce = req.Nonce
	}
	if err := h.authService.CheckNonce(nonce, services.SettingsNonceAction); err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	result, err := h.settingsService.Save(c.Request.Context(), services.SaveRequest{
		PoolJSON:     poolField(req.ImagePool),
		ContentTypes: req.ContentTypes,
	})
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PutSettings request", "duration", time.Since(start), "success", true)
	c.JSON(http.StatusOK, result)
}

// poolField turns the JSON body value into the form field representation
func poolField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	return string(raw)
}
