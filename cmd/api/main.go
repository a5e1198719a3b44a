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
	"golang.org/x/sync/errgroup"

	"github.com/cardapiohub/cardapio-backend/api/routes"
	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/cron"
	"github.com/cardapiohub/cardapio-backend/internal/flowconfig"
	"github.com/cardapiohub/cardapio-backend/internal/sessions"
	"github.com/cardapiohub/cardapio-backend/internal/stores"
	"github.com/cardapiohub/cardapio-backend/internal/upsell"
	"github.com/cardapiohub/cardapio-backend/pkg/config"
	"github.com/cardapiohub/cardapio-backend/pkg/db"
	"github.com/cardapiohub/cardapio-backend/pkg/instance"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/metrics"
	"github.com/cardapiohub/cardapio-backend/pkg/migrate"
	"github.com/cardapiohub/cardapio-backend/pkg/redis"
)

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
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured; caches, rate limits and job locks disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	flowMetrics := metrics.NewFlowMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	var (
		catalogReader catalog.Reader    = catalog.NewRepository(dbClient.DB())
		flowSource    flowconfig.Source = flowconfig.NewRepository(dbClient.DB())
	)
	if redisClient != nil {
		catalogReader = catalog.NewCachedReader(catalogReader, redisClient, cfg.Flow.CatalogCacheTTL, logg)
		flowSource = flowconfig.NewCachedSource(flowSource, redisClient, cfg.Flow.CatalogCacheTTL, logg)
	}

	storeService, err := stores.NewService(stores.NewRepository(dbClient.DB()), time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cartRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	sessionService, err := sessions.NewService(sessions.Deps{
		Catalog:          catalogReader,
		Prices:           catalog.NewResolver(catalogReader),
		FlowConfig:       flowSource,
		Stores:           storeService,
		Cart:             cartService,
		Prompts:          upsell.NewRepository(dbClient.DB()),
		QuickAdd:         upsell.NewCatalogQuickAdd(catalogReader, cfg.Flow.QuickAddLimit),
		Metrics:          flowMetrics,
		Logger:           logg,
		MaxAdditionalQty: cfg.Flow.MaxAdditionalQty,
		TTL:              cfg.Flow.SessionTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}

	sweeper, err := newSweeper(cfg, logg, jobMetrics, sessionService)
	if err != nil {
		logg.Error(context.Background(), "failed to create session sweeper", err)
		os.Exit(1)
	}
	retention, err := newRetention(cfg, logg, jobMetrics, dbClient, cartRepo, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart retention", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:       dbClient,
			Redis:    redisClient,
			Gatherer: reg,
			Sessions: sessionService,
			Cart:     cartService,
			Catalog:  catalogReader,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return ignoreCanceled(sweeper.Run(gctx))
	})
	if retention != nil {
		g.Go(func() error {
			return ignoreCanceled(retention.Run(gctx))
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		logg.Info(ctx, "api server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped gracefully")
}

// newSweeper expires idle sessions. Sessions live in this process, so the
// sweep runs on every instance without a lock.
func newSweeper(cfg *config.Config, logg *logger.Logger, jobMetrics *metrics.JobMetrics, svc *sessions.Service) (*cron.Service, error) {
	job := cron.NewJobFunc("session-expiry", func(ctx context.Context) error {
		svc.Sweep(ctx)
		return nil
	})
	return cron.NewService(cron.ServiceParams{
		Name:     "session-sweeper",
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Metrics:  jobMetrics,
		Interval: cfg.Jobs.SweepInterval,
	})
}

// newRetention prunes old cart lines. Cart lines are shared, so the job only
// runs when redis can provide the cross-instance lock.
func newRetention(cfg *config.Config, logg *logger.Logger, jobMetrics *metrics.JobMetrics, dbClient *db.Client, repo *cart.Repository, redisClient *redis.Client) (*cron.Service, error) {
	if redisClient == nil {
		return nil, nil
	}
	job, err := cron.NewCartRetentionJob(cron.CartRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: repo,
		Retention:  cfg.Jobs.CartRetention,
	})
	if err != nil {
		return nil, err
	}
	lock, err := cron.NewRedisLock(redisClient, redis.JobLockKey(job.Name()), cfg.Jobs.LockTTL)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Name:     "cart-retention",
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Jobs.RetentionInterval,
	})
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
