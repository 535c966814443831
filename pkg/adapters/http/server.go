package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/txtree"
	"github.com/aretw0/txtree/internal/logging"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/aretw0/txtree/pkg/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server serves documents held by a workspace.Manager.
type Server struct {
	Docs     *workspace.Manager
	Streams  *StreamManager
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer selects the registry exposed on /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates the HTTP handler over docs.
//
//	GET    /documents                 list names
//	GET    /documents/{name}          stored file
//	PUT    /documents/{name}          replace with the file in the body
//	DELETE /documents/{name}          remove
//	POST   /documents/{name}/edits    apply an edit batch atomically
//	GET    /documents/{name}/events   revision stream (SSE)
//	GET    /healthz, /metrics
func NewHandler(docs *workspace.Manager, opts ...Option) http.Handler {
	s := &Server{
		Docs:     docs,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetDocument)
			r.Put("/", s.PutDocument)
			r.Delete("/", s.DeleteDocument)
			r.Post("/edits", s.ApplyEdits)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": strings.TrimSpace(txtree.Version)})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	names, err := s.Docs.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"documents": names})
}

// GetDocument handles GET /documents/{name}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	f, err := s.Docs.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFile(w, r, http.StatusOK, f)
}

// PutDocument handles PUT /documents/{name}.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := document.ParseFile(data, requestFormat(r))
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	stored, err := s.Docs.Put(r.Context(), name, f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Streams.Broadcast(name, RevisionEvent{Document: name, Revision: stored.Revision})
	s.writeFile(w, r, http.StatusOK, stored)
}

// DeleteDocument handles DELETE /documents/{name}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Docs.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Streams.Broadcast(name, RevisionEvent{Document: name, Deleted: true})
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEdits handles POST /documents/{name}/edits.
func (s *Server) ApplyEdits(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	edits, err := document.ParseEdits(data, requestFormat(r))
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	f, changed, err := s.Docs.Apply(r.Context(), name, edits)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if changed {
		s.Streams.Broadcast(name, RevisionEvent{Document: name, Revision: f.Revision})
	}
	s.writeFile(w, r, http.StatusOK, f)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, badRequest(fmt.Errorf("failed to read request body: %w", err))
	}
	return data, nil
}

func requestFormat(r *http.Request) document.Format {
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return document.FormatYAML
	}
	return document.FormatJSON
}

func responseFormat(r *http.Request) document.Format {
	if strings.Contains(r.Header.Get("Accept"), "yaml") {
		return document.FormatYAML
	}
	return document.FormatJSON
}

func (s *Server) writeFile(w http.ResponseWriter, r *http.Request, status int, f *document.File) {
	format := responseFormat(r)
	data, err := document.Encode(f, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if format == document.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
