// Package mcp exposes the assistant as a Model Context Protocol server so
// LLM hosts can drive template matching, discovery and elicitation as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/formpilot/formpilot"
	"github.com/formpilot/formpilot/internal/sanitize"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/match"
	"github.com/formpilot/formpilot/pkg/session"
)

// TemplateSummary is the catalog listing entry returned by list_templates.
type TemplateSummary struct {
	ID          string `json:"id" jsonschema_description:"Template identifier"`
	Title       string `json:"title" jsonschema_description:"Human readable title"`
	Description string `json:"description,omitempty" jsonschema_description:"What the form is for"`
}

// ListTemplatesResponse wraps the catalog listing.
type ListTemplatesResponse struct {
	Templates []TemplateSummary `json:"templates"`
}

// MatchResponse carries scored candidates for a free-text intent.
type MatchResponse struct {
	Candidates []domain.MatchCandidate `json:"candidates" jsonschema_description:"Templates ordered by descending confidence"`
}

// DiscoveryResponse is the unified result for all discovery tools.
type DiscoveryResponse struct {
	Question    *domain.Question `json:"question,omitempty" jsonschema_description:"The question to put to the user, absent when the walk is complete"`
	Completed   bool             `json:"completed" jsonschema_description:"True once the questionnaire has finished"`
	Suggestions []string         `json:"suggestions,omitempty" jsonschema_description:"Suggested template ids, set on completion"`
}

// ElicitationResponse is the unified result for all elicitation tools.
type ElicitationResponse struct {
	Question   *domain.Question        `json:"question,omitempty" jsonschema_description:"The next field to ask for, absent when the walk is complete"`
	Completed  bool                    `json:"completed" jsonschema_description:"True once every field has been answered"`
	Remaining  int                     `json:"remaining" jsonschema_description:"Fields still unanswered"`
	Validation *domain.ValidationError `json:"validation,omitempty" jsonschema_description:"Set when the submitted answer was rejected; the question repeats"`
}

// SummaryResponse wraps the collected answers of an elicitation session.
type SummaryResponse struct {
	TemplateID string            `json:"template_id"`
	Answers    map[string]string `json:"answers"`
	Completed  bool              `json:"completed"`
}

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

type templateArgs struct {
	TemplateID string `mapstructure:"template_id"`
}

type matchArgs struct {
	Input string `mapstructure:"input"`
	Limit int    `mapstructure:"limit"`
}

type answerArgs struct {
	SessionID string `mapstructure:"session_id"`
	Answer    string `mapstructure:"answer"`
}

type startElicitationArgs struct {
	SessionID  string `mapstructure:"session_id"`
	TemplateID string `mapstructure:"template_id"`
}

// Server exposes the assistant over MCP, stdio or SSE.
type Server struct {
	sessions  *session.Manager
	catalog   *catalog.Catalog
	matcher   *match.Matcher
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(sessions *session.Manager, c *catalog.Catalog) (*Server, error) {
	matcher, err := match.New(c)
	if err != nil {
		return nil, fmt.Errorf("failed to build matcher: %w", err)
	}
	s := &Server{
		sessions:  sessions,
		catalog:   c,
		matcher:   matcher,
		mcpServer: server.NewMCPServer("formpilot-mcp", formpilot.Version),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until
// the context is canceled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// decodeArgs maps loosely typed tool arguments onto a typed request.
// WeaklyTypedInput tolerates JSON numbers arriving as float64.
func decodeArgs(args map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

func (s *Server) registerTools() {
	// TOOL: list_templates
	s.mcpServer.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the available form templates."),
		mcp.WithOutputSchema[ListTemplatesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListTemplates))

	// TOOL: get_template
	s.mcpServer.AddTool(mcp.NewTool("get_template",
		mcp.WithDescription("Get the full definition of one template, including its field schema."),
		mcp.WithString("template_id", mcp.Required(), mcp.Description("Template identifier")),
		mcp.WithOutputSchema[domain.Template](),
	), mcp.NewStructuredToolHandler(s.handleGetTemplate))

	// TOOL: match_intent
	s.mcpServer.AddTool(mcp.NewTool("match_intent",
		mcp.WithDescription("Score a free-text description of what the user needs against the catalog."),
		mcp.WithString("input", mcp.Required(), mcp.Description("What the user said, verbatim")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of candidates to return (0 = all)")),
		mcp.WithOutputSchema[MatchResponse](),
	), mcp.NewStructuredToolHandler(s.handleMatchIntent))

	// TOOL: discovery_start
	s.mcpServer.AddTool(mcp.NewTool("discovery_start",
		mcp.WithDescription("Begin (or restart) the guided discovery questionnaire for a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[DiscoveryResponse](),
	), mcp.NewStructuredToolHandler(s.handleDiscoveryStart))

	// TOOL: discovery_question
	s.mcpServer.AddTool(mcp.NewTool("discovery_question",
		mcp.WithDescription("Get the current discovery question for a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[DiscoveryResponse](),
	), mcp.NewStructuredToolHandler(s.handleDiscoveryQuestion))

	// TOOL: discovery_answer
	s.mcpServer.AddTool(mcp.NewTool("discovery_answer",
		mcp.WithDescription("Submit the user's answer to the current discovery question."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The selected option or free text")),
		mcp.WithOutputSchema[DiscoveryResponse](),
	), mcp.NewStructuredToolHandler(s.handleDiscoveryAnswer))

	// TOOL: discovery_reset
	s.mcpServer.AddTool(mcp.NewTool("discovery_reset",
		mcp.WithDescription("Discard the session's discovery progress."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[DiscoveryResponse](),
	), mcp.NewStructuredToolHandler(s.handleDiscoveryReset))

	// TOOL: elicitation_start
	s.mcpServer.AddTool(mcp.NewTool("elicitation_start",
		mcp.WithDescription("Begin collecting answers for a chosen template, field by field."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("template_id", mcp.Required(), mcp.Description("Template to fill out")),
		mcp.WithOutputSchema[ElicitationResponse](),
	), mcp.NewStructuredToolHandler(s.handleElicitationStart))

	// TOOL: elicitation_question
	s.mcpServer.AddTool(mcp.NewTool("elicitation_question",
		mcp.WithDescription("Get the current elicitation question for a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[ElicitationResponse](),
	), mcp.NewStructuredToolHandler(s.handleElicitationQuestion))

	// TOOL: elicitation_answer
	s.mcpServer.AddTool(mcp.NewTool("elicitation_answer",
		mcp.WithDescription("Submit the user's answer to the current field. A rejected answer repeats the question with validation detail."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The raw answer text")),
		mcp.WithOutputSchema[ElicitationResponse](),
	), mcp.NewStructuredToolHandler(s.handleElicitationAnswer))

	// TOOL: elicitation_reset
	s.mcpServer.AddTool(mcp.NewTool("elicitation_reset",
		mcp.WithDescription("Discard the session's elicitation progress."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[ElicitationResponse](),
	), mcp.NewStructuredToolHandler(s.handleElicitationReset))

	// TOOL: elicitation_summary
	s.mcpServer.AddTool(mcp.NewTool("elicitation_summary",
		mcp.WithDescription("Get the answers collected so far for a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[SummaryResponse](),
	), mcp.NewStructuredToolHandler(s.handleElicitationSummary))
}

func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListTemplatesResponse, error) {
	templates := s.catalog.Templates()
	out := ListTemplatesResponse{Templates: make([]TemplateSummary, 0, len(templates))}
	for _, tpl := range templates {
		out.Templates = append(out.Templates, TemplateSummary{
			ID:          tpl.ID,
			Title:       tpl.Title,
			Description: tpl.Description,
		})
	}
	return out, nil
}

func (s *Server) handleGetTemplate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Template, error) {
	var req templateArgs
	if err := decodeArgs(args, &req); err != nil {
		return domain.Template{}, fmt.Errorf("invalid arguments: %w", err)
	}
	return s.catalog.Get(req.TemplateID)
}

func (s *Server) handleMatchIntent(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MatchResponse, error) {
	var req matchArgs
	if err := decodeArgs(args, &req); err != nil {
		return MatchResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	return MatchResponse{Candidates: s.matcher.Top(req.Input, req.Limit)}, nil
}

func (s *Server) handleDiscoveryStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DiscoveryResponse, error) {
	var req sessionArgs
	if err := decodeArgs(args, &req); err != nil {
		return DiscoveryResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var out DiscoveryResponse
	err := s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
		ws.Discovery.Start()
		out.Question = ws.Discovery.CurrentQuestion()
		return nil
	})
	return out, err
}

func (s *Server) handleDiscoveryQuestion(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DiscoveryResponse, error) {
	var req sessionArgs
	if err := decodeArgs(args, &req); err != nil {
		return DiscoveryResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var out DiscoveryResponse
	err := s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
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
	return out, err
}

func (s *Server) handleDiscoveryAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DiscoveryResponse, error) {
	var req answerArgs
	if err := decodeArgs(args, &req); err != nil {
		return DiscoveryResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	answer, err := sanitize.Input(req.Answer)
	if err != nil {
		return DiscoveryResponse{}, fmt.Errorf("invalid answer: %w", err)
	}

	var out DiscoveryResponse
	err = s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
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
	return out, err
}

func (s *Server) handleDiscoveryReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DiscoveryResponse, error) {
	var req sessionArgs
	if err := decodeArgs(args, &req); err != nil {
		return DiscoveryResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	err := s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
		ws.Discovery.Reset()
		return nil
	})
	return DiscoveryResponse{}, err
}

func (s *Server) handleElicitationStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElicitationResponse, error) {
	var req startElicitationArgs
	if err := decodeArgs(args, &req); err != nil {
		return ElicitationResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var out ElicitationResponse
	err := s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
		if err := ws.Elicitation.Start(req.TemplateID); err != nil {
			return err
		}
		out.Question = ws.Elicitation.CurrentQuestion()
		return nil
	})
	return out, err
}

func (s *Server) handleElicitationQuestion(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElicitationResponse, error) {
	var req sessionArgs
	if err := decodeArgs(args, &req); err != nil {
		return ElicitationResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var out ElicitationResponse
	err := s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
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
	return out, err
}

func (s *Server) handleElicitationAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElicitationResponse, error) {
	var req answerArgs
	if err := decodeArgs(args, &req); err != nil {
		return ElicitationResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	answer, err := sanitize.Input(req.Answer)
	if err != nil {
		return ElicitationResponse{}, fmt.Errorf("invalid answer: %w", err)
	}

	var out ElicitationResponse
	err = s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
		step, err := ws.Elicitation.SubmitAnswer(answer)
		if err != nil {
			// Validation failures are part of the conversation, not tool
			// errors: repeat the question with the rejection detail.
			if ve, ok := domain.AsValidationError(err); ok {
				out.Validation = ve
				out.Question = ws.Elicitation.CurrentQuestion()
				return nil
			}
			return err
		}
		out.Completed = step.Completed
		out.Remaining = step.Remaining
		if !step.Completed {
			out.Question = ws.Elicitation.CurrentQuestion()
		}
		return nil
	})
	return out, err
}

func (s *Server) handleElicitationReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElicitationResponse, error) {
	var req sessionArgs
	if err := decodeArgs(args, &req); err != nil {
		return ElicitationResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	err := s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
		ws.Elicitation.Reset()
		return nil
	})
	return ElicitationResponse{}, err
}

func (s *Server) handleElicitationSummary(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SummaryResponse, error) {
	var req sessionArgs
	if err := decodeArgs(args, &req); err != nil {
		return SummaryResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var out SummaryResponse
	err := s.sessions.WithSession(ctx, req.SessionID, func(ctx context.Context, ws *session.Workspace) error {
		summary := ws.Elicitation.Summary()
		if summary == nil {
			return domain.ErrNoActiveSession
		}
		out.TemplateID = summary.TemplateID
		out.Answers = summary.Answers
		out.Completed = summary.Completed
		return nil
	})
	return out, err
}

func (s *Server) registerResources() {
	// EXPOSE: formpilot://catalog
	s.mcpServer.AddResource(mcp.NewResource("formpilot://catalog", "Form Template Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.catalog.Templates())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "formpilot://catalog",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
