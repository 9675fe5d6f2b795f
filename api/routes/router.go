package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/estatedesk-backend/api/controllers"
	"github.com/angelmondragon/estatedesk-backend/api/middleware"
	"github.com/angelmondragon/estatedesk-backend/internal/dashboard"
	"github.com/angelmondragon/estatedesk-backend/internal/landing"
	product "github.com/angelmondragon/estatedesk-backend/internal/products"
	"github.com/angelmondragon/estatedesk-backend/pkg/config"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/angelmondragon/estatedesk-backend/pkg/metrics"
	"github.com/angelmondragon/estatedesk-backend/pkg/redis"
)

// Dependencies carries everything the router wires. Nil Redis disables
// idempotency; an empty MediaDir skips the static media route.
type Dependencies struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     *redis.Client
	Metrics   *metrics.HTTPMetrics
	Gatherer  prometheus.Gatherer
	Dashboard *dashboard.Dashboard
	Media     *dashboard.MediaService
	MediaDir  string
	Landing   *landing.Service
	Products  product.Service
}

func NewRouter(d Dependencies) http.Handler {
	cfg, logg := d.Config, d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Metrics(d.Metrics),
	)

	idem := idempotency(d)

	readyDeps := map[string]controllers.Pinger{"db": d.DB}
	if d.Redis != nil {
		readyDeps["redis"] = d.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	if d.MediaDir != "" {
		prefix := "/" + strings.Trim(cfg.Media.PublicPath, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(d.MediaDir))))
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1/products", func(r chi.Router) {
		r.NotFound(controllers.LegacyNotFound(logg))
		r.MethodNotAllowed(controllers.LegacyNotFound(logg))
		r.HandleFunc("/", controllers.Products(d.Products, logg))
		r.HandleFunc("/{id}", controllers.Product(d.Products, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		cat := d.Dashboard.Catalog()
		r.Get("/properties", controllers.CatalogProperties(cat))
		r.Get("/properties/{id}", controllers.CatalogProperty(cat, logg))
		r.Get("/files", controllers.CatalogFiles(cat))
		r.Get("/maps", controllers.CatalogMaps(cat))
		r.Get("/maps/{id}", controllers.CatalogMap(cat, logg))
		r.Get("/landing", controllers.CatalogLanding(d.Landing))
		r.With(idem).Post("/queries", controllers.CatalogSubmitInquiry(cat, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Get("/overview", controllers.AdminOverview(d.Dashboard))
		r.Get("/pages", controllers.AdminPages(d.Dashboard))
		r.Post("/queries/{id}/read", controllers.AdminMarkQueryRead(d.Dashboard, logg))

		prefs := d.Dashboard.Preferences()
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", controllers.PreferencesSnapshot(prefs, logg))
			r.Delete("/", controllers.PreferencesReset(prefs, logg))
			r.Put("/{field}", controllers.PreferencesSet(prefs, logg))
		})

		r.Route("/tables/{entity}", func(r chi.Router) {
			tableRoutes(r, d, idem)
		})

		mountMedia(r, "/properties/{id}/media", controllers.NewMediaController(d.Media, logg, "properties", uploadLimit(cfg)), idem)
		mountMedia(r, "/maps/{id}/media", controllers.NewMediaController(d.Media, logg, "maps", uploadLimit(cfg)), idem)

		r.Route("/landing", func(r chi.Router) {
			r.Get("/", controllers.LandingSections(d.Landing))
			r.With(idem).Post("/save", controllers.LandingSave(d.Landing, logg))
			r.Post("/reset", controllers.LandingReset(d.Landing))
			r.Post("/seed-demo", controllers.LandingSeedDemo(d.Landing, logg))
			r.Get("/{key}/available", controllers.LandingAvailable(d.Landing, logg))
			r.Patch("/{key}", controllers.LandingUpdateSection(d.Landing, logg))
			r.Put("/{key}/items", controllers.LandingSelectItems(d.Landing, logg))
		})
	})

	return r
}

func tableRoutes(r chi.Router, d Dependencies, idem func(http.Handler) http.Handler) {
	dash, logg := d.Dashboard, d.Logger
	r.Get("/", controllers.TableView(dash, logg))
	r.Post("/reset", controllers.TableReset(dash, logg))
	r.Put("/sort", controllers.TableSort(dash, logg))
	r.Put("/pagination", controllers.TablePagination(dash, logg))
	r.Put("/columns/{columnId}/visibility", controllers.TableColumnVisibility(dash, logg))
	r.Put("/row-order", controllers.TableRowOrder(dash, logg))
	r.Put("/filter", controllers.TableFilter(dash, logg))
	r.Post("/selection", controllers.TableSelection(dash, logg))

	r.Get("/panel", controllers.TablePanel(dash, logg))
	r.Post("/panel/add", controllers.TableOpenAdd(dash, logg))
	r.Post("/panel/edit/{id}", controllers.TableOpenEdit(dash, logg))
	r.Post("/panel/duplicate/{id}", controllers.TableOpenDuplicate(dash, logg))
	r.Post("/panel/close", controllers.TableClosePanel(dash, logg))
	r.With(idem).Post("/panel/submit", controllers.TableSubmit(dash, logg))

	r.Post("/rows/{id}/click", controllers.TableRowClick(dash, logg))
	r.Get("/rows/{id}/actions", controllers.TableRowActions(dash, logg))
	r.Post("/rows/{id}/actions/{action}", controllers.TableRunAction(dash, logg))
	r.Delete("/rows/{id}", controllers.TableDeleteRow(dash, logg))

	r.Get("/bulk", controllers.TableBulkBar(dash, logg))
	r.Post("/bulk/delete", controllers.TableBulkDelete(dash, logg))
	r.Get("/export/csv", controllers.TableExportCSV(dash, logg))
	r.Post("/export/pdf", controllers.TableExportPDF(dash, logg))
}

func mountMedia(r chi.Router, prefix string, c *controllers.MediaController, idem func(http.Handler) http.Handler) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", c.View())
		r.Post("/move", c.Move())
		r.With(idem).Post("/{slot}", c.Upload())
		r.Delete("/items/{itemId}", c.Remove())
		r.Post("/items/{itemId}/primary", c.TogglePrimary())
	})
}

// idempotency passes an untyped nil store when redis is off so the
// middleware sees a missing store rather than a nil client.
func idempotency(d Dependencies) func(http.Handler) http.Handler {
	if d.Redis == nil || !d.Config.FeatureFlags.Idempotency {
		return middleware.Idempotency(nil, d.Logger)
	}
	return middleware.Idempotency(d.Redis, d.Logger)
}

// uploadLimit caps a multipart request at every allowed file plus form overhead.
func uploadLimit(cfg *config.Config) int64 {
	perFile := int64(cfg.Media.MaxUploadMB) << 20
	files := int64(cfg.Media.MaxFiles)
	if files < 1 {
		files = 1
	}
	return perFile*files + 1<<20
}
