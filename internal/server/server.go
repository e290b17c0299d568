// Package server exposes the scan pipeline and receipt store over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/elperroloc0/InvoiceScanner/internal/pipeline"
	"github.com/elperroloc0/InvoiceScanner/internal/repository"
)

// Server is the HTTP API for the scanner.
type Server struct {
	router    chi.Router
	processor *pipeline.Processor
	store     repository.ReceiptStore // nil disables persistence
	log       *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(processor *pipeline.Processor, store repository.ReceiptStore, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{processor: processor, store: store, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Post("/api/scan", s.handleScan)
	r.Get("/api/receipts", s.handleListReceipts)
	r.Get("/api/receipts/export", s.handleExport)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
