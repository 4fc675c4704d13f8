package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/go-chi/chi/v5"
)

// Engine defines the interface for the Arbor orchestrator core.
type Engine interface {
	CreateGraph(g *domain.Graph) string
	RunGraph(ctx context.Context, graphID string, initial map[string]any, background bool) (string, error)
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	ListRuns(ctx context.Context) ([]string, error)
}

// Server exposes graph creation and run triggering over JSON/HTTP.
type Server struct {
	Engine   Engine
	Registry *registry.Registry
	Tools    *registry.Tools
	Logger   *slog.Logger
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, reg *registry.Registry, tools *registry.Tools, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	server := &Server{
		Engine:   engine,
		Registry: reg,
		Tools:    tools,
		Logger:   logger,
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/tools", server.ListTools)
	r.Post("/graphs", server.CreateGraph)
	r.Post("/runs", server.CreateRun)
	r.Get("/runs", server.ListRuns)
	r.Get("/runs/{runID}", server.GetRun)
	return r
}

type createGraphResponse struct {
	GraphID string `json:"graph_id"`
}

// CreateGraph handles POST /graphs. The payload is a graph document whose
// node values are registered node names; an unknown name is a client error.
func (s *Server) CreateGraph(w http.ResponseWriter, r *http.Request) {
	var doc dto.GraphDoc
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("CreateGraph: invalid request body", "err", err)
		return
	}

	graph, err := compiler.Compile(&doc, s.Registry)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid graph document: %v", err), http.StatusBadRequest)
		s.Logger.Warn("CreateGraph: compile failed", "err", err)
		return
	}

	graphID := s.Engine.CreateGraph(graph)
	writeJSON(w, http.StatusCreated, createGraphResponse{GraphID: graphID}, s.Logger)
}

type runRequest struct {
	GraphID      string         `json:"graph_id"`
	InitialState map[string]any `json:"initial_state"`
	Background   bool           `json:"background"`
}

type runResponse struct {
	RunID    string         `json:"run_id"`
	State    map[string]any `json:"state"`
	Logs     []string       `json:"logs"`
	Finished bool           `json:"finished"`
	Error    string         `json:"error,omitempty"`
}

// CreateRun handles POST /runs. Foreground requests respond with the fully
// populated record; background requests respond immediately and the record
// is polled via GET /runs/{runID}.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var body runRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("CreateRun: invalid request body", "err", err)
		return
	}

	runID, err := s.Engine.RunGraph(r.Context(), body.GraphID, body.InitialState, body.Background)
	if err != nil {
		if errors.Is(err, domain.ErrGraphNotFound) {
			http.Error(w, "Graph not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("CreateRun failed", "err", err)
		return
	}

	run, err := s.Engine.GetRun(r.Context(), runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("CreateRun: load after start failed", "run_id", runID, "err", err)
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		RunID:    run.RunID,
		State:    run.State,
		Logs:     run.Logs,
		Finished: run.Finished,
		Error:    run.Error,
	}, s.Logger)
}

// GetRun handles GET /runs/{runID}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := s.Engine.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Lookup error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("GetRun failed", "run_id", runID, "err", err)
		return
	}

	writeJSON(w, http.StatusOK, run, s.Logger)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.ListRuns(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("ListRuns failed", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids}, s.Logger)
}

// ListTools handles GET /tools.
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"tools": s.Tools.Names()}, s.Logger)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
