package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lauracastellan/velora-backend/api/controllers"
	"github.com/lauracastellan/velora-backend/api/middleware"
	"github.com/lauracastellan/velora-backend/internal/cart"
	"github.com/lauracastellan/velora-backend/internal/catalog"
	"github.com/lauracastellan/velora-backend/pkg/config"
	"github.com/lauracastellan/velora-backend/pkg/logger"
	"github.com/lauracastellan/velora-backend/pkg/redis"
)

// RouterParams bundles the wired dependencies the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	Catalog         catalog.Service
	CartRegistry    *cart.Registry
	Feedback        controllers.FeedbackSubmitter
	RedisClient     *redis.Client
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, readyPinger(p.RedisClient), p.Logger))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(p.Config.RateLimit, rateLimiter(p.RedisClient), p.Logger))
		r.Use(middleware.Session(
			p.Config.Cart.SessionCookie,
			p.Config.Cart.SessionTTL,
			p.Config.App.IsProd(),
			p.Logger,
		))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(p.Catalog, p.Logger))
			r.Get("/facets", controllers.ProductFacets(p.Catalog, p.Logger))
			r.Get("/discounted", controllers.DiscountedProducts(p.Catalog, p.Logger))
			r.Get("/new-arrivals", controllers.NewArrivals(p.Catalog, p.Logger))
			r.Get("/top-rated", controllers.TopRated(p.Catalog, p.Logger))
			r.Get("/{productId}", controllers.GetProduct(p.Catalog, p.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(p.CartRegistry, p.Logger))
			r.Get("/count", controllers.CartCount(p.CartRegistry, p.Logger))
			r.Delete("/", controllers.CartClear(p.CartRegistry, p.Logger))
			r.Post("/items", controllers.CartAddItem(p.CartRegistry, p.Catalog, p.Logger))
			r.Patch("/items", controllers.CartUpdateItem(p.CartRegistry, p.Logger))
			r.Delete("/items", controllers.CartRemoveItem(p.CartRegistry, p.Logger))
		})

		r.Post("/feedback", controllers.SubmitFeedback(p.Feedback, p.Config.Feedback.MaxCommentSize, p.Logger))
	})

	return r
}

// readyPinger and rateLimiter keep the nil *redis.Client from turning into a
// non-nil interface value inside the handlers.
func readyPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}

func rateLimiter(client *redis.Client) middleware.LimiterStore {
	if client == nil {
		return nil
	}
	return client
}
