package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocklimedev/quotations-backend/api/controllers"
	"github.com/rocklimedev/quotations-backend/api/middleware"
	quotationsvc "github.com/rocklimedev/quotations-backend/internal/quotations"
	"github.com/rocklimedev/quotations-backend/pkg/config"
	"github.com/rocklimedev/quotations-backend/pkg/logger"
	pkgredis "github.com/rocklimedev/quotations-backend/pkg/redis"
)

// NewRouter wires the HTTP surface: health probes, the metrics endpoint and
// the quotation routes behind the idempotency middleware.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cache pkgredis.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	registry *prometheus.Registry,
	quotationService quotationsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cache))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(
			idempotencyStore,
			logg,
			middleware.QuotationIdempotencyRules(cfg.Quotation.IdempotencyTTL),
		))

		r.Route("/quotations", func(r chi.Router) {
			r.Post("/", controllers.CreateQuotation(quotationService, logg))
			r.Get("/", controllers.ListQuotations(quotationService, logg))
			r.Get("/{quotationId}", controllers.GetQuotation(quotationService, logg))
		})
	})

	return r
}
