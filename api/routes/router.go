package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardapiohub/cardapio-backend/api/controllers"
	"github.com/cardapiohub/cardapio-backend/api/middleware"
	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/sessions"
	"github.com/cardapiohub/cardapio-backend/pkg/config"
	"github.com/cardapiohub/cardapio-backend/pkg/db"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/redis"
)

// Deps are the services the router exposes. Redis and Gatherer are optional.
type Deps struct {
	DB       db.Pinger
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	Sessions *sessions.Service
	Cart     *cart.Service
	Catalog  catalog.Reader
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	ready := map[string]controllers.Pinger{"database": deps.DB, "redis": nil}
	if deps.Redis != nil {
		ready["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	createPolicy := middleware.NewRateLimitPolicy(
		"sessions",
		cfg.HTTP.SessionRateWindow,
		cfg.HTTP.SessionRateLimit,
	)

	r.Route("/api/v1/stores/{"+middleware.StoreIDParam+"}", func(r chi.Router) {
		r.Use(middleware.StoreScope(logg))

		r.Get("/categories/{"+controllers.CategoryIDParam+"}/sizes", controllers.CatalogSizes(deps.Catalog, logg))

		r.Route("/sessions", func(r chi.Router) {
			r.With(sessionRateLimit(createPolicy, deps.Redis, logg)).Post("/", controllers.SessionCreate(deps.Sessions, logg))

			r.Route("/{"+controllers.SessionIDParam+"}", func(r chi.Router) {
				r.Get("/", controllers.SessionFetch(deps.Sessions, logg))
				r.Delete("/", controllers.SessionClose(deps.Sessions, logg))
				r.Post("/size", controllers.SessionChooseSize(deps.Sessions, logg))
				r.Post("/flavors", controllers.SessionToggleFlavor(deps.Sessions, logg))
				r.Put("/notes", controllers.SessionSetNotes(deps.Sessions, logg))
				r.Put("/edge", controllers.SessionChooseEdge(deps.Sessions, logg))
				r.Put("/dough", controllers.SessionChooseDough(deps.Sessions, logg))
				r.Post("/additionals", controllers.SessionToggleAdditional(deps.Sessions, logg))
				r.Post("/additionals/quantity", controllers.SessionChangeAdditionalQuantity(deps.Sessions, logg))
				r.Post("/advance", controllers.SessionAdvance(deps.Sessions, logg))
				r.Put("/drink", controllers.SessionChooseDrink(deps.Sessions, logg))
				r.Post("/cancel", controllers.SessionCancel(deps.Sessions, logg))
				r.Get("/upsell", controllers.UpsellFetch(deps.Sessions, logg))
				r.Post("/upsell/actions", controllers.UpsellAct(deps.Sessions, logg))
				r.Get("/cart", controllers.CartFetch(deps.Cart, logg))
			})
		})
	})

	return r
}

// sessionRateLimit counts in redis when it is configured and is a
// pass-through otherwise.
func sessionRateLimit(policy middleware.RateLimitPolicy, client *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return middleware.RateLimit(policy, nil, logg)
	}
	return middleware.RateLimit(policy, client, logg)
}
