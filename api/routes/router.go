package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/madebuy/madebuy-backend/api/controllers"
	"github.com/madebuy/madebuy-backend/api/middleware"
	"github.com/madebuy/madebuy-backend/internal/cart"
	"github.com/madebuy/madebuy-backend/internal/personalization"
	"github.com/madebuy/madebuy-backend/internal/pieces"
	"github.com/madebuy/madebuy-backend/internal/uploads"
	"github.com/madebuy/madebuy-backend/pkg/config"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	RedisClient *redis.Client
	Pingers     map[string]controllers.Pinger

	PieceService           pieces.Service
	PersonalizationService personalization.Service
	UploadService          uploads.Service
	CartService            cart.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	uploadPolicy := middleware.NewUploadRateLimitPolicy(
		deps.Config.Uploads.RateLimitWindow,
		deps.Config.Uploads.RateLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TenantContext(deps.Logger))
		r.Use(middleware.Idempotency(deps.RedisClient, deps.Logger))

		r.Get("/ping", controllers.TenantPing())

		r.Route("/v1/pieces", func(r chi.Router) {
			r.Post("/", controllers.CreatePiece(deps.PieceService, deps.Logger))
			r.Get("/", controllers.ListPieces(deps.PieceService, deps.Logger))
			r.Route("/{pieceID}", func(r chi.Router) {
				r.Get("/", controllers.GetPiece(deps.PieceService, deps.Logger))
				r.Put("/", controllers.UpdatePiece(deps.PieceService, deps.Logger))
				r.Delete("/", controllers.DeletePiece(deps.PieceService, deps.Logger))

				r.Route("/personalization", func(r chi.Router) {
					r.Get("/", controllers.GetPersonalizationConfig(deps.PersonalizationService, deps.Logger))
					r.Put("/", controllers.UpsertPersonalizationConfig(deps.PersonalizationService, deps.Logger))
					r.Patch("/enabled", controllers.SetPersonalizationEnabled(deps.PersonalizationService, deps.Logger))
					r.Post("/sessions", controllers.OpenFormSession(deps.PersonalizationService, deps.Logger))
				})
			})
		})

		uploadHandler := middleware.UploadRateLimit(uploadPolicy, deps.RedisClient, deps.Logger)(
			controllers.PersonalizationUpload(deps.UploadService, deps.Logger, deps.Config.Uploads.MaxUploadMB))

		r.Route("/v1/personalization", func(r chi.Router) {
			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Get("/", controllers.GetFormSession(deps.PersonalizationService, deps.Logger))
				r.Patch("/fields/{fieldID}", controllers.SetFormFieldValue(deps.PersonalizationService, deps.Logger))
				r.Post("/fields/{fieldID}/blur", controllers.BlurFormField(deps.PersonalizationService, deps.Logger))
				r.Delete("/fields/{fieldID}/file", controllers.RemoveFormFile(deps.PersonalizationService, deps.Logger))
			})
			r.Method(http.MethodPost, "/upload", uploadHandler)
		})

		// unversioned alias kept for storefront clients built against the
		// original upload path
		r.Method(http.MethodPost, "/personalization/upload", uploadHandler)

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.CartService, deps.Logger))
			r.Post("/items", controllers.AddCartItem(deps.CartService, deps.Logger))
			r.Delete("/items/{itemID}", controllers.RemoveCartItem(deps.CartService, deps.Logger))
		})
	})

	return r
}
