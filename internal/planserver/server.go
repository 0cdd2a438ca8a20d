// Package planserver implements the plan generation endpoint on top of an
// LLM provider.
package planserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/generation"
	"github.com/DaWei8/phasely/internal/llm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxRequestBytes = 1 << 20

// GeneratePlanResponse is the body returned for a successful generation.
type GeneratePlanResponse struct {
	Plan          map[string]any `json:"plan"`
	ModelVersion  string         `json:"modelVersion"`
	UsageMetadata UsageMetadata  `json:"usageMetadata"`
}

type UsageMetadata struct {
	LatencyMs int64 `json:"latencyMs"`
	Attempts  int   `json:"attempts"`
}

// Server answers generation requests by prompting an LLM and validating
// what it returns.
type Server struct {
	client   llm.LLMClient
	provider llm.Provider
	schema   *jsonschema.Schema
	logger   *slog.Logger
}

func New(client llm.LLMClient, provider llm.Provider, logger *slog.Logger) (*Server, error) {
	schema, err := compilePlanSchema()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{client: client, provider: provider, schema: schema, logger: logger}, nil
}

// Handler returns the HTTP routes served by s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post(generation.GeneratePlanPath, s.generatePlan)
	r.Get("/healthz", s.health)
	return r
}

// ListenAndServe serves s on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("plan server listening", "addr", addr, "provider", s.provider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down plan server: %w", err)
		}
		return nil
	}
}

func (s *Server) generatePlan(w http.ResponseWriter, r *http.Request) {
	var req generation.GeneratePlanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}
	if req.Duration <= 0 {
		http.Error(w, "duration must be a positive number of days", http.StatusBadRequest)
		return
	}

	resp, err := s.client.Generate(r.Context(), llm.GenerateRequest{
		Task:         llm.TaskGeneratePlan,
		SystemPrompt: systemPrompt,
		UserPrompt:   req.Prompt,
		JSONMode:     true,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "plan generation failed", "duration", req.Duration, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	plan, err := llm.ExtractJSON[map[string]any](resp.Text, func(v map[string]any) error {
		return s.schema.Validate(v)
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "plan output rejected", "duration", req.Duration, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if entries, ok := plan["calendar"].([]any); ok && len(entries) != req.Duration {
		s.logger.WarnContext(r.Context(), "calendar length mismatch",
			"requested", req.Duration, "returned", len(entries))
	}

	writeJSON(w, http.StatusOK, GeneratePlanResponse{
		Plan:         plan,
		ModelVersion: resp.Model,
		UsageMetadata: UsageMetadata{
			LatencyMs: resp.LatencyMs,
			Attempts:  resp.Attempts,
		},
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	available := s.client.Available(r.Context())
	status := http.StatusOK
	if !available {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"provider":  s.provider,
		"available": available,
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.InfoContext(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
