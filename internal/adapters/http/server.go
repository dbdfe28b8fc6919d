// Package http serves the assistant over a plain JSON API, one route per
// engine operation, with sessions addressed by id in the path.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/formpilot/formpilot"
	"github.com/formpilot/formpilot/internal/logging"
	"github.com/formpilot/formpilot/internal/sanitize"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/match"
	"github.com/formpilot/formpilot/pkg/session"
)

// Server routes JSON requests onto the session manager and matcher.
type Server struct {
	sessions *session.Manager
	catalog  *catalog.Catalog
	matcher  *match.Matcher
	metrics  *Metrics
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics replaces the default instrument set, e.g. to share a registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer builds the server. The matcher is compiled once up front.
func NewServer(sessions *session.Manager, c *catalog.Catalog, opts ...Option) (*Server, error) {
	matcher, err := match.New(c)
	if err != nil {
		return nil, fmt.Errorf("failed to build matcher: %w", err)
	}
	s := &Server{
		sessions: sessions,
		catalog:  c,
		matcher:  matcher,
		metrics:  NewMetrics(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler wires the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/templates", s.handleListTemplates)
	r.Get("/templates/{templateID}", s.handleGetTemplate)
	r.Post("/match", s.handleMatch)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)

			r.Route("/discovery", func(r chi.Router) {
				r.Post("/start", s.handleDiscoveryStart)
				r.Get("/question", s.handleDiscoveryQuestion)
				r.Post("/answer", s.handleDiscoveryAnswer)
				r.Post("/reset", s.handleDiscoveryReset)
			})

			r.Route("/elicitation", func(r chi.Router) {
				r.Post("/start", s.handleElicitationStart)
				r.Get("/question", s.handleElicitationQuestion)
				r.Post("/answer", s.handleElicitationAnswer)
				r.Post("/reset", s.handleElicitationReset)
				r.Get("/summary", s.handleElicitationSummary)
			})
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// -- Payload types --

type matchRequest struct {
	Input string `json:"input"`
	Limit int    `json:"limit,omitempty"`
}

type matchResponse struct {
	Candidates []domain.MatchCandidate `json:"candidates"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type startElicitationRequest struct {
	TemplateID string `json:"template_id"`
}

type discoveryResponse struct {
	Question    *domain.Question `json:"question,omitempty"`
	Completed   bool             `json:"completed"`
	Suggestions []string         `json:"suggestions,omitempty"`
}

type elicitationResponse struct {
	Question  *domain.Question `json:"question,omitempty"`
	Completed bool             `json:"completed"`
	Remaining int              `json:"remaining,omitempty"`
}

type errorResponse struct {
	Error      string                  `json:"error"`
	Validation *domain.ValidationError `json:"validation,omitempty"`
}

// -- Handlers --

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "formpilot-http",
		"version": formpilot.Version,
	})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Templates())
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.catalog.Get(chi.URLParam(r, "templateID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var body matchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	start := time.Now()
	candidates := s.matcher.Top(body.Input, body.Limit)
	s.metrics.MatchRequests.Inc()
	s.metrics.MatchDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, matchResponse{Candidates: candidates})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	err := s.sessions.WithSession(r.Context(), sessionID, func(ctx context.Context, ws *session.Workspace) error {
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.SessionsCreated.Inc()
	s.logger.Info("session created", "session_id", sessionID)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.SessionsDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDiscoveryStart(w http.ResponseWriter, r *http.Request) {
	var out discoveryResponse
	err := s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		ws.Discovery.Start()
		out.Question = ws.Discovery.CurrentQuestion()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDiscoveryQuestion(w http.ResponseWriter, r *http.Request) {
	var out discoveryResponse
	err := s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		if snap := ws.Discovery.Snapshot(); snap != nil && snap.Completed {
			out.Completed = true
			out.Suggestions = snap.Suggestions
			return nil
		}
		q := ws.Discovery.CurrentQuestion()
		if q == nil {
			return domain.ErrNoActiveSession
		}
		out.Question = q
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDiscoveryAnswer(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	answer, err := sanitize.Input(body.Answer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var out discoveryResponse
	err = s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		step, err := ws.Discovery.SubmitAnswer(answer)
		if err != nil {
			return err
		}
		out.Completed = step.Completed
		out.Suggestions = step.Suggestions
		if !step.Completed {
			out.Question = ws.Discovery.CurrentQuestion()
		}
		return nil
	})
	if err != nil {
		s.metrics.Answers.WithLabelValues("discovery", "rejected").Inc()
		s.writeError(w, err)
		return
	}
	s.metrics.Answers.WithLabelValues("discovery", "accepted").Inc()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDiscoveryReset(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		ws.Discovery.Reset()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleElicitationStart(w http.ResponseWriter, r *http.Request) {
	var body startElicitationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var out elicitationResponse
	err := s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		if err := ws.Elicitation.Start(body.TemplateID); err != nil {
			return err
		}
		out.Question = ws.Elicitation.CurrentQuestion()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleElicitationQuestion(w http.ResponseWriter, r *http.Request) {
	var out elicitationResponse
	err := s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		summary := ws.Elicitation.Summary()
		if summary == nil {
			return domain.ErrNoActiveSession
		}
		if summary.Completed {
			out.Completed = true
			return nil
		}
		out.Question = ws.Elicitation.CurrentQuestion()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleElicitationAnswer(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	answer, err := sanitize.Input(body.Answer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var out elicitationResponse
	err = s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		step, err := ws.Elicitation.SubmitAnswer(answer)
		if err != nil {
			return err
		}
		out.Completed = step.Completed
		out.Remaining = step.Remaining
		if !step.Completed {
			out.Question = ws.Elicitation.CurrentQuestion()
		}
		return nil
	})
	if err != nil {
		s.metrics.Answers.WithLabelValues("elicitation", "rejected").Inc()
		s.writeError(w, err)
		return
	}
	s.metrics.Answers.WithLabelValues("elicitation", "accepted").Inc()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleElicitationReset(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		ws.Elicitation.Reset()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleElicitationSummary(w http.ResponseWriter, r *http.Request) {
	var out *elicitSummary
	err := s.sessions.WithSession(r.Context(), chi.URLParam(r, "sessionID"), func(ctx context.Context, ws *session.Workspace) error {
		summary := ws.Elicitation.Summary()
		if summary == nil {
			return domain.ErrNoActiveSession
		}
		out = &elicitSummary{
			TemplateID: summary.TemplateID,
			Answers:    summary.Answers,
			Completed:  summary.Completed,
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type elicitSummary struct {
	TemplateID string            `json:"template_id"`
	Answers    map[string]string `json:"answers"`
	Completed  bool              `json:"completed"`
}

// -- Helpers --

// writeError maps domain errors onto HTTP status codes. Validation failures
// are 422 with the structured detail so clients can re-prompt precisely.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Validation: ve})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, domain.ErrNoCurrentQuestion):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
