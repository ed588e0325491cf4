// Package api wires the bioflow-align HTTP routes.
package api

import (
	"net/http"
	"time"

	"github.com/aria-lang/bioflow-align/api/handlers"
	"github.com/aria-lang/bioflow-align/api/middleware"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Options configures NewRouter.
type Options struct {
	// Alignment serves /api/alignment; nil uses default scores.
	Alignment *handlers.Alignment
	// Timeout bounds each request; zero means 60 seconds.
	Timeout time.Duration
	// Quiet disables request logging.
	Quiet bool
}

// NewRouter returns the API router.
func NewRouter(opts Options) chi.Router {
	align := opts.Alignment
	if align == nil {
		align = handlers.NewAlignment(bioflow.DefaultScores())
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/sequence", func(r chi.Router) {
			r.Post("/validate", handlers.ValidateHandler)
			r.Post("/complement", handlers.ComplementHandler)
			r.Post("/reverse-complement", handlers.ReverseComplementHandler)
		})

		r.Route("/alignment", func(r chi.Router) {
			r.Post("/local", align.Local)
			r.Post("/global", align.Global)
			r.Post("/banded", align.Banded)
			r.Post("/score", align.Score)
			r.Post("/anchors", align.Anchors)
			r.Post("/batch", align.Batch)
		})
	})

	return r
}
