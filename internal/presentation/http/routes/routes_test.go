package routes

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/container"
	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	schema "github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/database"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/middleware"
)

const adminPassword = "correct horse"

type testServer struct {
	router    *gin.Engine
	container *container.Container
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.NewDiscardLogger()
	db, err := database.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	creator := schema.NewTableCreator()
	require.NoError(t, creator.CreateSchema(ctx, db))
	require.NoError(t, creator.SeedInitialContent(ctx, db))

	c := container.NewContainer(db, logger, nil, container.Options{
		JWTSecret:     "test-secret",
		AdminPassword: adminPassword,
		MediaDir:      t.TempDir(),
		MediaURL:      "/media",
	})
	t.Cleanup(c.InvalidateOnSettingsEvent())

	return &testServer{router: SetupRoutes(c), container: c}
}

func (s *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"`+adminPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AdminCookieName {
			return cookie
		}
	}
	t.Fatal("login did not set the admin cookie")
	return nil
}

func (s *testServer) createPost(t *testing.T, postType string) int64 {
	t.Helper()
	post, err := s.container.PostService.Create(context.Background(), services.CreatePostRequest{
		PostType: postType,
		Title:    "Hello world",
	})
	require.NoError(t, err)
	return post.ID
}

func (s *testServer) configure(t *testing.T, pool string, types ...string) {
	t.Helper()
	_, err := s.container.SettingsService.Save(context.Background(), services.SaveRequest{
		PoolJSON:     pool,
		ContentTypes: types,
	})
	require.NoError(t, err)
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["database"])
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/settings", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie := s.login(t)
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", nil), cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isAdmin"])
}

func TestLoginForm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(formRequest("/admin/login", url.Values{"password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(formRequest("/admin/login", url.Values{"password": {adminPassword}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/settings", w.Header().Get("Location"))
}

func TestSettingsPageRenders(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)
	s.configure(t, `[404]`, "post")
	// a public attachment type must still stay out of the checklist
	w := s.do(jsonRequest(http.MethodPost, "/api/v1/admin/post-types",
		`{"name":"attachment","label":"Media","public":true}`), cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/admin/settings?updated=1", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `name="_nonce"`)
	assert.Contains(t, body, `name="image_pool"`)
	assert.Contains(t, body, `value="post" checked`)
	assert.Contains(t, body, `value="page">`)
	assert.NotContains(t, body, `value="attachment"`)
	assert.Contains(t, body, "Settings saved.")
	assert.Contains(t, body, "Pool images no longer in the media library: 404")
}

func TestSettingsFormRejectsMissingNonce(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	w := s.do(formRequest("/admin/settings", url.Values{
		"rdfi_submit":  {"Save"},
		"image_pool":   {`[1,2]`},
		"post_types[]": {"post"},
	}), cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	nonce, err := s.container.AuthService.IssueNonce(services.SettingsNonceAction)
	require.NoError(t, err)
	w = s.do(formRequest("/admin/settings", url.Values{
		"_nonce":       {nonce},
		"image_pool":   {`[1,2]`},
		"post_types[]": {"post"},
	}), cookie)
	assert.Equal(t, http.StatusForbidden, w.Code, "submit field is required")

	settings, err := s.container.SettingsService.Settings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, settings.Pool)
	assert.Zero(t, settings.ContentTypes.Len())
}

func TestSettingsFormSaves(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	nonce, err := s.container.AuthService.IssueNonce(services.SettingsNonceAction)
	require.NoError(t, err)

	w := s.do(formRequest("/admin/settings", url.Values{
		"rdfi_submit":  {"Save"},
		"_nonce":       {nonce},
		"image_pool":   {`[5,"6","x"]`},
		"post_types[]": {"post", "page"},
	}), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/settings?updated=1", w.Header().Get("Location"))

	settings, err := s.container.SettingsService.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, featured.ImagePool{5, 6}, settings.Pool)
	assert.Equal(t, []string{"post", "page"}, settings.ContentTypes.Names())

	// Unchecking every type clears the list
	w = s.do(formRequest("/admin/settings", url.Values{
		"rdfi_submit": {"Save"},
		"_nonce":      {nonce},
		"image_pool":  {`[5]`},
	}), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	settings, err = s.container.SettingsService.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, featured.ImagePool{5}, settings.Pool)
	assert.Zero(t, settings.ContentTypes.Len())
}

func TestSettingsJSON(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/settings", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	nonce, _ := decode(t, w)["nonce"].(string)
	require.NotEmpty(t, nonce)

	put := func(body, nonce string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/settings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if nonce != "" {
			req.Header.Set("X-Form-Nonce", nonce)
		}
		return s.do(req, cookie)
	}

	w = put(`{"imagePool":[9,10],"contentTypes":["page"]}`, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = put(`{"imagePool":[9,10],"contentTypes":["page"]}`, nonce)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["poolUpdated"])

	w = put(`{"imagePool":"[11]","contentTypes":["page"]}`, nonce)
	require.Equal(t, http.StatusOK, w.Code)

	// An omitted pool keeps the stored one
	w = put(`{"contentTypes":["post"]}`, nonce)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["poolUpdated"])

	settings, err := s.container.SettingsService.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, featured.ImagePool{11}, settings.Pool)
	assert.Equal(t, []string{"post"}, settings.ContentTypes.Names())
}

func metaValues(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	values, _ := decode(t, w)["values"].([]any)
	return values
}

func TestPublicReadsGetDefaultImage(t *testing.T) {
	s := newTestServer(t)
	postID := s.createPost(t, "post")
	s.configure(t, `[42]`, "post")
	id := strconv.FormatInt(postID, 10)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id+"/meta?key=_thumbnail_id", nil))
	assert.Equal(t, []any{"42"}, metaValues(t, w))

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id+"/thumbnail", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(42), decode(t, w)["thumbnailId"])

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(42), decode(t, w)["thumbnailId"])
}

func TestAdminReadsSeeStoredValue(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)
	postID := s.createPost(t, "post")
	s.configure(t, `[42]`, "post")
	target := "/api/v1/admin/posts/" + strconv.FormatInt(postID, 10) + "/meta?key=_thumbnail_id"

	w := s.do(httptest.NewRequest(http.MethodGet, target, nil), cookie)
	assert.Empty(t, metaValues(t, w))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	w = s.do(req, cookie)
	assert.Equal(t, []any{"42"}, metaValues(t, w))
}

func TestDisabledTypeIsLeftAlone(t *testing.T) {
	s := newTestServer(t)
	postID := s.createPost(t, "page")
	s.configure(t, `[42]`, "post")

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+strconv.FormatInt(postID, 10)+"/meta?key=_thumbnail_id", nil))
	assert.Empty(t, metaValues(t, w))
}

func TestStoredThumbnailWins(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)
	postID := s.createPost(t, "post")
	s.configure(t, `[42]`, "post")
	id := strconv.FormatInt(postID, 10)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/posts/"+id+"/thumbnail", strings.NewReader(`{"thumbnailId":7}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id+"/meta?key=_thumbnail_id", nil))
	assert.Equal(t, []any{"7"}, metaValues(t, w))
}

func TestThumbnailBatch(t *testing.T) {
	s := newTestServer(t)
	a := s.createPost(t, "post")
	b := s.createPost(t, "post")
	s.configure(t, `[42]`, "post")
	require.NoError(t, s.container.PostService.SetThumbnail(context.Background(), b, 7))

	body := `{"postIds":[` + strconv.FormatInt(a, 10) + `,` + strconv.FormatInt(b, 10) + `,` + strconv.FormatInt(a, 10) + `,999]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/thumbnails", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, float64(2), resp["count"])
	assert.Equal(t, map[string]any{
		strconv.FormatInt(a, 10): float64(42),
		strconv.FormatInt(b, 10): float64(7),
	}, resp["thumbnails"])
}

func TestUnknownPost(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/999/meta?key=_thumbnail_id", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogLevels(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/log-levels", strings.NewReader(`{"channel":"settings","level":"debug"}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/log-levels", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	levels, _ := decode(t, w)["levels"].(map[string]any)
	assert.Equal(t, "DEBUG", levels["settings"])

	req = httptest.NewRequest(http.MethodPut, "/api/v1/admin/log-levels", strings.NewReader(`{"channel":"nope","level":"debug"}`))
	req.Header.Set("Content-Type", "application/json")
	w = s.do(req, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminPostList(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/posts", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var empty struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	assert.Equal(t, 0, empty.Count)

	s.createPost(t, "post")
	s.createPost(t, "page")

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/posts", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Posts []struct {
			PostType string `json:"postType"`
		} `json:"posts"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Posts, 2)
}

func TestRegisterPostType(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	w := s.do(jsonRequest(http.MethodPost, "/api/v1/admin/post-types",
		`{"name":"recipe","label":"Recipes","public":true,"supportsThumbnail":true}`), cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "recipe", decode(t, w)["name"])

	w = s.do(jsonRequest(http.MethodPost, "/api/v1/admin/post-types", `{"name":"Not Valid","label":"Bad"}`), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(jsonRequest(http.MethodPost, "/api/v1/admin/post-types", `{"name":"recipe","label":"Recipes"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/post-types", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"recipe"`)

	s.createPost(t, "recipe")
}

func TestMediaLibrary(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	data := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	w := s.do(jsonRequest(http.MethodPost, "/api/v1/admin/files",
		`{"filename":"dot.png","altDescription":"A dot","data":"`+data+`"}`), cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	uploaded := decode(t, w)
	fileID := int64(uploaded["id"].(float64))
	assert.Positive(t, fileID)
	thumbURL, _ := uploaded["thumbUrl"].(string)
	assert.True(t, strings.HasPrefix(thumbURL, "/media/thumbs/"))

	w = s.do(httptest.NewRequest(http.MethodGet, thumbURL, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/files", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = s.do(jsonRequest(http.MethodPost, "/api/v1/admin/files", `{"filename":"x.svg","data":"data:image/svg+xml;base64,PHN2Zy8+"}`), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	target := "/api/v1/admin/files/" + strconv.FormatInt(fileID, 10)
	w = s.do(httptest.NewRequest(http.MethodDelete, target, nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(httptest.NewRequest(http.MethodDelete, target, nil), cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/files", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}
