package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"expediente-service/pkg/logger"
)

// NewRouter wires the expediente endpoints, health and metrics.
func NewRouter(h *ExpedienteHTTP, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/operadores/{id}", func(r chi.Router) {
		r.Get("/expediente", h.GetExpediente())
		r.Post("/exportaciones", h.Export())
		r.Post("/evidencias", h.Evidence())
		r.Post("/resumen", h.Summary())
	})

	return r
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("Request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start).String())
		})
	}
}
