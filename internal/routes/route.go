package routes

import (
	"net/http"
	"time"

	"eps-portal/internal/config"
	"eps-portal/internal/handlers"
	"eps-portal/internal/logger"
	"eps-portal/internal/metrics"
	mdlwr "eps-portal/internal/middleware"
	"eps-portal/internal/services"
	"eps-portal/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/uptrace/bun"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	reg := metrics.NewRegistry()
	metrics.RegisterDBStats(reg, db.DB)

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mdlwr.RequestLogger(logr.Logger))
	r.Use(mdlwr.Metrics(metrics.NewHTTPMetrics(reg)))
	r.Use(middleware.Recoverer)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}

	st := store.New(db)

	aoiSvc := services.NewAOIService(st)
	aoiHandler := handlers.NewAOIHandler(aoiSvc, logr.Logger)
	ndviHandler := handlers.NewNDVIHandler(services.NewNDVIService(st), logr.Logger)
	algaeHandler := handlers.NewAlgaeHandler(services.NewAlgaeService(st), logr.Logger)
	vesselHandler := handlers.NewVesselHandler(services.NewVesselService(st), logr.Logger)
	oilHandler := handlers.NewOilSlickHandler(services.NewOilSlickService(st), logr.Logger)
	customerHandler := handlers.NewCustomerHandler(services.NewCustomerService(st), logr.Logger)
	catalogHandler := handlers.NewCatalogHandler(services.NewCatalogService(st), logr.Logger)
	locationHandler := handlers.NewLocationHandler(services.NewLocationService(st), logr.Logger)
	healthHandler := handlers.NewHealthHandler(st, logr.Logger)

	r.Get("/healthz", healthHandler.Healthz)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler(reg))
	}

	r.Route("/aoi", func(r chi.Router) {
		r.Get("/", aoiHandler.List)
		r.Post("/", aoiHandler.Create)
		r.Get("/match", aoiHandler.Match)
	})

	r.Route("/service", func(r chi.Router) {
		r.Route("/ndvi", func(r chi.Router) {
			r.Get("/", ndviHandler.List)
			r.Post("/", ndviHandler.Derive)
			r.Get("/stats", ndviHandler.Stats)
			r.Post("/stats", ndviHandler.CreateStats)
			r.Get("/aoi", ndviHandler.AOI)
		})

		r.Route("/algae", func(r chi.Router) {
			r.Get("/", algaeHandler.List)
			r.Post("/", algaeHandler.Create)
			r.Get("/stats", algaeHandler.Stats)
			r.Post("/stats", algaeHandler.Create)
			r.Get("/aoi", algaeHandler.AOI)
		})

		r.Route("/vessels", func(r chi.Router) {
			r.Get("/", vesselHandler.List)
			r.Post("/", vesselHandler.Create)
			r.Get("/by-id/{id}", vesselHandler.Get)
			r.Get("/by-location/{location_id}", vesselHandler.ListByLocation)
			r.Put("/{id}", vesselHandler.Update)
			r.Delete("/{id}", vesselHandler.Delete)
		})

		r.Route("/oil", func(r chi.Router) {
			r.Get("/", oilHandler.List)
			r.Post("/", oilHandler.Create)
			r.Get("/{id}", oilHandler.Get)
			r.Delete("/{id}", oilHandler.Delete)
		})
	})

	r.Route("/customer", func(r chi.Router) {
		r.Get("/", customerHandler.List)
		r.Post("/", customerHandler.Create)
		r.Post("/{id}/services", customerHandler.LinkService)
	})

	r.Route("/services", func(r chi.Router) {
		r.Get("/", catalogHandler.List)
		r.Post("/", catalogHandler.Create)
		r.Get("/{customer_id}", catalogHandler.ListByCustomer)
	})

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", locationHandler.List)
		r.Post("/", locationHandler.Create)
		r.Get("/customer/{customer_id}", locationHandler.ListByCustomer)
	})

	return r
}
