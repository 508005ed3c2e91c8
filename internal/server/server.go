// Package server exposes the layout pipeline and album storage over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/layout                 measure and render an inline album
//	POST   /v1/albums                 create or replace an album
//	GET    /v1/albums                 list albums
//	GET    /v1/albums/{id}            fetch an album
//	DELETE /v1/albums/{id}            delete an album
//	GET    /v1/albums/{id}/layout     render a stored album (?format=svg|png|pdf|json)
//	POST   /v1/albums/{id}/move       drag an item onto another and persist the order
//
// Errors are written as {"code": "...", "message": "..."}: invalid input
// maps to 400, missing albums to 404 and everything else to 500.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/store"
)

// maxBodyBytes bounds request bodies; an album is ten items.
const maxBodyBytes = 1 << 20

// Config holds the server dependencies.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Options are the defaults each request starts from.
	Options pipeline.Options
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// New creates a server. A nil runner gets an uncached one and a nil store
// an in-memory one.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger,
		defaults: cfg.Options,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Route("/albums", func(r chi.Router) {
			r.Post("/", s.handlePutAlbum)
			r.Get("/", s.handleListAlbums)
			r.Get("/{id}", s.handleGetAlbum)
			r.Delete("/{id}", s.handleDeleteAlbum)
			r.Get("/{id}/layout", s.handleAlbumLayout)
			r.Post("/{id}/move", s.handleMove)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
