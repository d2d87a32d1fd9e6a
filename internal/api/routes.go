package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleDashboard)
		r.With(s.rateLimitMiddleware).Post("/scrape", s.handleScrape)
		r.Post("/window/{n}", s.handleSelectWindow)
		r.Post("/reset", s.handleReset)

		r.Route("/api", func(r chi.Router) {
			r.Use(s.rateLimitMiddleware)
			r.Post("/scrape", s.handleAPIScrape)
			r.Put("/window", s.handleAPIWindow)
			r.Get("/dashboard", s.handleAPIDashboard)
			r.Get("/chart.svg", s.handleChartSVG)
			r.Delete("/session", s.handleAPIEndSession)
		})
	})

	return r
}
