package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/productos-api/internal/config"
	"github.com/Lixing-Zhang/productos-api/internal/handlers"
	"github.com/Lixing-Zhang/productos-api/internal/metrics"
	"github.com/Lixing-Zhang/productos-api/internal/middleware"
	"github.com/Lixing-Zhang/productos-api/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires middleware and routes around svc. m may be nil, in which
// case no metrics are recorded and /metrics is not mounted.
func NewRouter(cfg *config.Config, svc *service.ProductService, m *metrics.Metrics, log *slog.Logger) http.Handler {
	healthHandler := handlers.NewHealthHandler(log, svc)
	productHandler := handlers.NewProductHandler(svc, log, cfg.Validation.Strict)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if m != nil {
		r.Use(m.Middleware())
	}
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound(log))
	r.MethodNotAllowed(handlers.MethodNotAllowed(log))

	r.Get("/health", healthHandler.ServeHTTP)
	if m != nil {
		r.Get("/metrics", m.Handler())
	}

	r.Route("/productos", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.CreateProduct)
		r.Put("/{id:[0-9]+}", productHandler.UpdateProduct)
		r.Delete("/{id:[0-9]+}", productHandler.DeleteProduct)
	})

	return r
}
