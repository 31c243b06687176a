package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// NewRouter mounts the operational routes at the root and every storefront
// view behind the device workspace middleware. gatherer may be nil, in which
// case /metrics is not served.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	manager *workspace.Manager,
	m *metrics.Storefront,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, m),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, manager, logg))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Workspace(manager, logg))

		r.Get("/", controllers.Home(cfg.Catalog.TopLimit, logg))
		r.Get("/account", controllers.Account(cfg.Account, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(logg))
			r.Post("/", controllers.ProductsCreate(logg))
			r.Post("/reload", controllers.ProductsReload(logg))
			r.Put("/{id}", controllers.ProductsUpdate(logg))
			r.Delete("/{id}", controllers.ProductsDelete(logg))
			r.Post("/{id}/details", controllers.ProductDetails(logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(logg))
			r.Delete("/", controllers.CartClear(logg))
			r.Post("/items", controllers.CartAdd(logg))
			r.Delete("/items/{id}", controllers.CartRemove(logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientsList(logg))
			r.Post("/", controllers.ClientsCreate(logg))
			r.Put("/{id}", controllers.ClientsUpdate(logg))
			r.Delete("/{id}", controllers.ClientsDelete(logg))
		})

		r.Route("/theme", func(r chi.Router) {
			r.Get("/", controllers.ThemeGet(logg))
			r.Put("/", controllers.ThemeSet(logg))
			r.Post("/toggle", controllers.ThemeToggle(logg))
		})

		r.NotFound(controllers.NotFound(logg))
	})

	return r
}
