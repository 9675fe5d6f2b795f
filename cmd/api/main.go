package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/estatedesk-backend/api/routes"
	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
	"github.com/angelmondragon/estatedesk-backend/internal/dashboard"
	"github.com/angelmondragon/estatedesk-backend/internal/landing"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
	product "github.com/angelmondragon/estatedesk-backend/internal/products"
	"github.com/angelmondragon/estatedesk-backend/pkg/config"
	"github.com/angelmondragon/estatedesk-backend/pkg/db"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/angelmondragon/estatedesk-backend/pkg/metrics"
	"github.com/angelmondragon/estatedesk-backend/pkg/migrate"
	"github.com/angelmondragon/estatedesk-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		if redisClient, err = redis.New(ctx, cfg.Redis, logg); err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend, err := preferences.BackendFor(cfg.Preferences, dbClient.DB(), redisClient)
	if err != nil {
		return err
	}
	prefs, err := preferences.NewStore(backend, cfg.Preferences.StorageKey, logg)
	if err != nil {
		return err
	}

	cat, err := catalog.New(logg, catalog.Options{
		Recorder:  metrics.NewEntityMetrics(reg),
		PublicURL: cfg.App.PublicURL,
	})
	if err != nil {
		return err
	}
	if err := cat.Seed(); err != nil {
		return err
	}

	dash, err := dashboard.New(cat, prefs, logg)
	if err != nil {
		return err
	}
	blobs, err := media.NewDiskStore(cfg.Media.Dir, cfg.Media.PublicPath)
	if err != nil {
		return err
	}
	mediaSvc, err := dashboard.NewMediaService(cat, blobs, logg)
	if err != nil {
		return err
	}

	landingSvc, err := landing.NewService(landing.NewRepository(dbClient.DB()), cat, logg)
	if err != nil {
		return err
	}
	if err := landingSvc.Load(ctx); err != nil {
		return err
	}
	if cfg.FeatureFlags.SeedDemoData {
		if err := landingSvc.SeedDemo(ctx); err != nil {
			return err
		}
	}

	productSvc, err := product.NewService(product.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		return err
	}

	deps := routes.Dependencies{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Metrics:   metrics.NewHTTPMetrics(reg),
		Gatherer:  reg,
		Redis:     redisClient,
		Dashboard: dash,
		Media:     mediaSvc,
		MediaDir:  blobs.Dir(),
		Landing:   landingSvc,
		Products:  productSvc,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":                 cfg.App.Env,
		"addr":                addr,
		"preferences_backend": cfg.Preferences.Backend,
		"redis":               redisClient != nil,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prefs.Hydrate(gctx)
		logg.Info(logCtx, "preferences hydrated")
		return nil
	})
	g.Go(func() error {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(logCtx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
