package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/cart"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/selection"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	gatherer prometheus.Gatherer,
	storefrontMetrics *metrics.Storefront,
	idempotencyStore redis.IdempotencyStore,
	catalogService catalog.Service,
	selectionService selection.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, storefrontMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Get("/home", controllers.CatalogHome(catalogService, logg))
		r.Get("/collections", controllers.CatalogCollections(catalogService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogProducts(catalogService, logg))
			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", controllers.CatalogProduct(catalogService, selectionService, logg))
				r.Route("/selection", func(r chi.Router) {
					r.Get("/", controllers.SelectionGet(selectionService, logg))
					r.Put("/variant", controllers.SelectionSelectVariant(selectionService, logg))
					r.Post("/increase", controllers.SelectionIncrease(selectionService, logg))
					r.Post("/decrease", controllers.SelectionDecrease(selectionService, logg))
				})
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Route("/items/{variantId}", func(r chi.Router) {
				r.Post("/increase", cartcontrollers.CartIncreaseItem(cartService, logg))
				r.Post("/decrease", cartcontrollers.CartDecreaseItem(cartService, logg))
				r.Delete("/", cartcontrollers.CartRemoveItem(cartService, logg))
			})
		})

		r.With(middleware.Idempotency(idempotencyStore, cfg.Checkout.IdempotencyTTL, logg)).
			Post("/checkout", controllers.CheckoutStart(checkoutService, logg))
	})

	return r
}
