package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
	"github.com/angelmondragon/estatedesk-backend/internal/dashboard"
	"github.com/angelmondragon/estatedesk-backend/internal/landing"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
	product "github.com/angelmondragon/estatedesk-backend/internal/products"
	"github.com/angelmondragon/estatedesk-backend/pkg/config"
	"github.com/angelmondragon/estatedesk-backend/pkg/db"
	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/angelmondragon/estatedesk-backend/pkg/metrics"
)

type harness struct {
	handler http.Handler
	catalog *catalog.Catalog
	reg     *prometheus.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.LandingSection{}))

	cat, err := catalog.New(logg, catalog.Options{})
	require.NoError(t, err)
	require.NoError(t, cat.Seed())

	prefs, err := preferences.NewStore(preferences.NewMemoryBackend(), "table-preferences-storage", logg)
	require.NoError(t, err)
	prefs.Hydrate(ctx)

	dash, err := dashboard.New(cat, prefs, logg)
	require.NoError(t, err)

	mediaDir := t.TempDir()
	disk, err := media.NewDiskStore(mediaDir, "/media")
	require.NoError(t, err)
	mediaSvc, err := dashboard.NewMediaService(cat, disk, logg)
	require.NoError(t, err)

	landingSvc, err := landing.NewService(landing.NewRepository(conn), cat, logg)
	require.NoError(t, err)
	require.NoError(t, landingSvc.Load(ctx))

	dbClient := db.NewFromConn(conn)
	productSvc, err := product.NewService(product.NewRepository(conn), dbClient, logg)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cfg := &config.Config{
		App:          config.AppConfig{Env: "test", CORSOrigins: "*"},
		Media:        config.MediaConfig{MaxUploadMB: 5, MaxFiles: 5, Dir: mediaDir, PublicPath: "/media"},
		FeatureFlags: config.FeatureFlagsConfig{Idempotency: true},
	}

	h := NewRouter(Dependencies{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Metrics:   metrics.NewHTTPMetrics(reg),
		Gatherer:  reg,
		Dashboard: dash,
		Media:     mediaSvc,
		MediaDir:  mediaDir,
		Landing:   landingSvc,
		Products:  productSvc,
	})
	return &harness{handler: h, catalog: cat, reg: reg}
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealthRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-EstateDesk-Env"))

	rec = h.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLegacyProductsRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/products", `{"name":"Corner Lot","slug":"corner-lot","price":"10.50"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "corner-lot", created["slug"])
	id := int(created["id"].(float64))

	rec = h.do(t, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "description")

	rec = h.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/products/%d", id), `{"stock":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock":3`)

	rec = h.do(t, http.MethodPost, "/api/v1/products", `{"name":"Again","slug":"corner-lot"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Insert failed","detail":"slug already exists"}`, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/v1/products", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name and slug required"}`, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/v1/products/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())

	rec = h.do(t, http.MethodPut, "/api/v1/products", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"ID required"}`, rec.Body.String())

	rec = h.do(t, http.MethodDelete, "/api/v1/products/999", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/extra", id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestCatalogInquiry(t *testing.T) {
	h := newHarness(t)
	unread := h.catalog.UnreadQueries()

	rec := h.do(t, http.MethodPost, "/api/v1/catalog/queries",
		`{"propertyTitle":"Luxury Villa","name":"Zara Khan","email":"zara@example.com","message":"Is it still available?"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, unread+1, h.catalog.UnreadQueries())

	rec = h.do(t, http.MethodPost, "/api/v1/catalog/queries", `{"propertyTitle":"Luxury Villa","name":"Zara","email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/catalog/properties", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminTableRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/admin/v1/tables/cities", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var state struct {
		Header struct {
			Title string `json:"title"`
		} `json:"header"`
		View struct {
			TotalRows int `json:"totalRows"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &state))
	assert.Equal(t, "Manage Cities", state.Header.Title)
	before := state.View.TotalRows

	rec = h.do(t, http.MethodPost, "/api/admin/v1/tables/cities/panel/submit", `{"values":{"name":"Multan"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/admin/v1/tables/cities/panel/add", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(t, http.MethodPost, "/api/admin/v1/tables/cities/panel/submit", `{"values":{"name":"Multan","status":"Active"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "added successfully!")

	rec = h.do(t, http.MethodGet, "/api/admin/v1/tables/cities", "")
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &state))
	assert.Equal(t, before+1, state.View.TotalRows)

	rec = h.do(t, http.MethodPut, "/api/admin/v1/tables/cities/pagination", `{"pageIndex":0,"pageSize":20}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/admin/v1/tables/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTableExportCSVRoute(t *testing.T) {
	h := newHarness(t)
	base := "/api/admin/v1/tables/cities"

	rec := h.do(t, http.MethodGet, base+"/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	var payload struct {
		Notice struct {
			Level   string `json:"level"`
			Message string `json:"message"`
		} `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
	assert.Equal(t, "No rows selected for export.", payload.Notice.Message)

	rec = h.do(t, http.MethodPost, base+"/selection", fmt.Sprintf(`{"op":"toggle","id":%q}`, h.catalog.Cities.List()[0].ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = h.do(t, http.MethodGet, base+"/export/csv", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(t, http.MethodPost, base+"/selection", `{"op":"all"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = h.do(t, http.MethodGet, base+"/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Lahore")
	assert.Contains(t, rec.Body.String(), "Karachi")
}

func TestPreferencesRoutes(t *testing.T) {
	h := newHarness(t)
	key := "/dashboard/users-table-prefs"

	rec := h.do(t, http.MethodPut, "/api/admin/v1/preferences/pagination?key="+key, `{"value":{"pageIndex":0,"pageSize":20}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var prefs preferences.ViewPreferences
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &prefs))
	assert.Equal(t, 20, prefs.Pagination.PageSize)

	rec = h.do(t, http.MethodPut, "/api/admin/v1/preferences/bogus?key="+key, `{"value":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPut, "/api/admin/v1/preferences/sorting", `{"value":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/admin/v1/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot map[string]preferences.ViewPreferences
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &snapshot))
	assert.Contains(t, snapshot, key)

	rec = h.do(t, http.MethodDelete, "/api/admin/v1/preferences?key="+key, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &prefs))
	assert.Equal(t, preferences.Defaults().Pagination, prefs.Pagination)
}

func TestMediaUploadRoute(t *testing.T) {
	h := newHarness(t)
	propertyID := h.catalog.Properties.List()[1].ID

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "front.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/properties/"+propertyID+"/media/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		Added []media.Item `json:"added"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	require.Len(t, result.Added, 1)

	rec = h.do(t, http.MethodGet, "/api/admin/v1/properties/"+propertyID+"/media", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/admin/v1/properties/"+propertyID+"/media/images", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLandingRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/admin/v1/landing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sections []landing.Section
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sections))
	assert.Len(t, sections, 6)

	rec = h.do(t, http.MethodPatch, "/api/admin/v1/landing/bogus", `{"isVisible":false}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/admin/v1/landing/seed-demo", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/admin/v1/landing/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Landing Page configuration saved!")

	rec = h.do(t, http.MethodGet, "/api/v1/catalog/landing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sections))
	for _, s := range sections {
		assert.True(t, s.IsVisible)
	}
}

func TestOverviewAndMetrics(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/admin/v1/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/admin/v1/overview"`)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/v1/overview", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
