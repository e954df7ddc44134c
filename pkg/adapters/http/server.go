package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/internal/presentation/graph"
	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generator is the part of mutagraph.Generator the server drives.
type Generator interface {
	Generate(ctx context.Context, size int) (*mutagraph.Result, error)
	LastGenerated() ports.Graph
}

// GenerateRequest is the body of POST /generate. An empty body uses the default size.
type GenerateRequest struct {
	Size *int `json:"size"`
}

// GenerateResponse describes one generated graph.
type GenerateResponse struct {
	RunID    string `json:"run_id"`
	Keyspace string `json:"keyspace"`
	Seed     uint64 `json:"seed"`
	Size     int    `json:"size"`
	Open     bool   `json:"open"`
	Trace    string `json:"trace"`
}

// Server exposes generation over HTTP.
type Server struct {
	Generator   Generator
	Store       ports.TraceStore
	Gatherer    prometheus.Gatherer
	DefaultSize int
	Logger      *slog.Logger
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Gatherer == nil {
		s.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Post("/generate", s.Generate)
	r.Get("/graph.mmd", s.Graph)
	r.Route("/traces", func(r chi.Router) {
		r.Get("/", s.ListTraces)
		r.Get("/{keyspace}", s.GetTrace)
		r.Delete("/{keyspace}", s.DeleteTrace)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Generate handles POST /generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Generate: invalid request body", "error", err)
		return
	}
	size := s.DefaultSize
	if body.Size != nil {
		size = *body.Size
	}
	if size < 0 {
		http.Error(w, "size must not be negative", http.StatusBadRequest)
		return
	}

	res, err := s.Generator.Generate(r.Context(), size)
	if err != nil {
		http.Error(w, fmt.Sprintf("Generate error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Generate failed", "size", size, "error", err)
		return
	}

	writeJSON(w, s.Logger, GenerateResponse{
		RunID:    res.RunID,
		Keyspace: res.Keyspace,
		Seed:     res.Seed,
		Size:     res.Size,
		Open:     res.Open,
		Trace:    res.Trace,
	})
}

// Graph handles GET /graph.mmd with a Mermaid diagram of the last generated
// ontology. Closed graphs cannot be inspected.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	g := s.Generator.LastGenerated()
	if g == nil {
		http.Error(w, "No graph generated yet", http.StatusNotFound)
		return
	}
	elements, err := graph.Ontology(g)
	if err != nil {
		if errors.Is(err, domain.ErrGraphClosed) {
			http.Error(w, "Last graph is closed", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Graph error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Graph failed", "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(elements))
}

// ListTraces handles GET /traces.
func (s *Server) ListTraces(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	keyspaces, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("ListTraces failed", "error", err)
		return
	}
	if keyspaces == nil {
		keyspaces = []string{}
	}
	writeJSON(w, s.Logger, keyspaces)
}

// GetTrace handles GET /traces/{keyspace}.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	keyspace := chi.URLParam(r, "keyspace")
	trace, err := s.Store.Load(r.Context(), keyspace)
	if err != nil {
		if errors.Is(err, ports.ErrTraceNotFound) {
			http.Error(w, "Trace not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("GetTrace failed", "keyspace", keyspace, "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, trace)
}

// DeleteTrace handles DELETE /traces/{keyspace}.
func (s *Server) DeleteTrace(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	keyspace := chi.URLParam(r, "keyspace")
	if err := s.Store.Delete(r.Context(), keyspace); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("DeleteTrace failed", "keyspace", keyspace, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		http.Error(w, "Trace archive disabled", http.StatusNotImplemented)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
