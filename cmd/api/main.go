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

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/selection"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/shopify"
	"github.com/angelmondragon/storefront-backend/pkg/square"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient.Close)

	readiness := map[string]controllers.Pinger{"redis": redisClient}

	var cartStore cart.Store
	switch cfg.Cart.Store {
	case config.CartStoreDB:
		dbClient, dbErr := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
		if dbErr != nil {
			return dbErr
		}
		closers = append(closers, dbClient.Close)
		readiness["db"] = dbClient

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return err
		}
		if cartStore, err = cart.NewGormStore(dbClient.DB(), cfg.Cart.TTL); err != nil {
			return err
		}
	default:
		if cartStore, err = cart.NewRedisStore(redisClient, cfg.Cart.TTL); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefront(registry)

	shopifyClient, err := shopify.NewClient(cfg.Shopify)
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(shopifyClient, redisClient, storefrontMetrics, logg, catalog.Options{
		CacheTTL:           cfg.Catalog.CacheTTL,
		PageSize:           cfg.Catalog.PageSize,
		CollectionProducts: cfg.Catalog.CollectionProducts,
	})
	if err != nil {
		return err
	}

	selections := selection.NewRegistry(cfg.Cart.SelectionTTL)
	go selections.Run(ctx, sweepInterval(cfg.Cart.SelectionTTL))

	selectionService, err := selection.NewService(selections, catalogService, logg)
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cartStore, selectionService, storefrontMetrics, logg)
	if err != nil {
		return err
	}

	gateway, err := newGateway(ctx, cfg, logg, shopifyClient)
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(cartService, gateway, storefrontMetrics, logg)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			registry,
			storefrontMetrics,
			redisClient,
			catalogService,
			selectionService,
			cartService,
			checkoutService,
		),
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"cart_store":    cfg.Cart.Store,
		"checkout_with": gateway.Name(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newGateway(ctx context.Context, cfg *config.Config, logg *logger.Logger, shopifyClient *shopify.Client) (checkout.Gateway, error) {
	if cfg.Checkout.NormalizedProvider() == config.CheckoutProviderSquare {
		squareClient, err := square.NewClient(ctx, cfg.Square, logg)
		if err != nil {
			return nil, err
		}
		return checkout.NewSquareGateway(squareClient, cfg.Square.Currency)
	}
	return checkout.NewShopifyGateway(shopifyClient)
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	if interval := ttl / 4; interval > time.Minute {
		return interval
	}
	return time.Minute
}
