// Package server exposes the document store and vector index over HTTP: a
// health check, document CRUD, semantic query, and the ingestion ledger.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/docassist/docassist/internal/catalog"
	"github.com/docassist/docassist/internal/ingest"
	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the docassist HTTP API server.
type Server struct {
	cfg        Config
	store      storage.DocumentStore
	index      *vectordb.Index
	catalog    *catalog.Store
	pipeline   *ingest.Pipeline
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given components. cat may be nil.
func New(cfg Config, store storage.DocumentStore, index *vectordb.Index, cat *catalog.Store, pipeline *ingest.Pipeline) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		index:    index,
		catalog:  cat,
		pipeline: pipeline,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", s.handleListDocuments)
		r.Put("/documents/{filename}", s.handleUploadDocument)
		r.Get("/documents/{filename}", s.handleGetDocument)
		r.Delete("/documents/{filename}", s.handleDeleteDocument)
		r.Post("/query", s.handleQuery)
		r.Get("/ingestions", s.handleListIngestions)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logrus.WithField("addr", addr).Info("docassist API listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
