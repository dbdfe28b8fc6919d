package discovery

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/formpilot/formpilot/internal/logging"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/domain"
)

const surrenderNodeID = "surrender-type"

// StepResult reports the outcome of a submitted answer.
type StepResult struct {
	Completed bool `json:"completed"`

	// Suggestions is set only when Completed is true, and is never empty
	// then: resolution falls back to the configured default template when
	// nothing better matched. That guarantee conflates "confident match"
	// with "nothing better to say"; callers that care can compare against
	// the default id.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Engine walks a single user through the discovery questionnaire.
// It owns at most one session at a time; Start discards any prior one.
// Safe for concurrent use by a serving layer.
type Engine struct {
	graph             *Graph
	catalog           *catalog.Catalog
	defaultSuggestion string
	logger            *slog.Logger

	mu   sync.Mutex
	sess *domain.DiscoverySession
}

// Option configures the Engine.
type Option func(*Engine)

// WithGraph replaces the builtin question graph.
func WithGraph(g *Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithDefaultSuggestion overrides the fallback template id.
func WithDefaultSuggestion(templateID string) Option {
	return func(e *Engine) {
		if templateID != "" {
			e.defaultSuggestion = templateID
		}
	}
}

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a discovery engine over the catalog with no active session.
func New(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		graph:             BuiltinGraph(),
		catalog:           c,
		defaultSuggestion: DefaultSuggestionID,
		logger:            logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start resets the engine to a fresh session at the root question.
// Any prior session is discarded silently.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess = &domain.DiscoverySession{
		CurrentNodeID: e.graph.RootID(),
		Answers:       []domain.DiscoveryAnswer{},
	}
}

// CurrentQuestion returns the question for the current node, or nil when
// there is no active session or the session is complete.
func (e *Engine) CurrentQuestion() *domain.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, ok := e.currentNode()
	if !ok {
		return nil
	}
	q := node.Question()
	return &q
}

func (e *Engine) currentNode() (Node, bool) {
	if e.sess == nil || e.sess.Completed || e.sess.CurrentNodeID == "" {
		return Node{}, false
	}
	return e.graph.Node(e.sess.CurrentNodeID)
}

// SubmitAnswer records the raw answer verbatim (discovery answers are
// free-form selections, not schema-validated) and advances the walk. When
// the answer has no follow-up the session completes and suggestions are
// resolved exactly once.
func (e *Engine) SubmitAnswer(raw string) (*StepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil, domain.ErrNoActiveSession
	}
	node, ok := e.currentNode()
	if !ok {
		return nil, domain.ErrNoCurrentQuestion
	}

	e.sess.Answers = append(e.sess.Answers, domain.DiscoveryAnswer{NodeID: node.ID, Text: raw})

	next := e.graph.Next(node.ID, raw)
	if next != "" {
		e.sess.CurrentNodeID = next
		return &StepResult{}, nil
	}

	e.sess.CurrentNodeID = ""
	e.sess.Completed = true
	e.sess.Suggestions = e.resolveSuggestions()
	e.logger.Debug("discovery session complete",
		"answers", len(e.sess.Answers),
		"suggestions", e.sess.Suggestions,
	)
	return &StepResult{Completed: true, Suggestions: e.sess.Suggestions}, nil
}

// resolveSuggestions runs at completion, in priority order: the canonical
// root-answer table, then a keyword scan over everything the user said,
// then the configured default.
func (e *Engine) resolveSuggestions() []string {
	rootAnswer, _ := e.sess.Answer(e.graph.RootID())

	if ids, ok := rootSuggestions[rootAnswer]; ok {
		return append([]string(nil), ids...)
	}
	if rootAnswer == AnswerSurrender {
		// The surrender branch disambiguates on the secondary answer.
		secondary, _ := e.sess.Answer(surrenderNodeID)
		if strings.EqualFold(secondary, AnswerPartialSurrender) {
			return []string{"partial-surrender"}
		}
		return []string{"full-surrender"}
	}

	if ids := e.keywordScan(); len(ids) > 0 {
		return ids
	}

	return []string{e.defaultSuggestion}
}

// keywordScan checks the concatenated answer text for keyword hits against
// every template. Any hit qualifies; no weighting.
func (e *Engine) keywordScan() []string {
	var sb strings.Builder
	for _, a := range e.sess.Answers {
		sb.WriteString(strings.ToLower(a.Text))
		sb.WriteByte(' ')
	}
	haystack := sb.String()

	var ids []string
	for _, tpl := range e.catalog.Templates() {
		for _, kw := range tpl.Keywords {
			if strings.Contains(haystack, strings.ToLower(kw)) {
				ids = append(ids, tpl.ID)
				break
			}
		}
	}
	return ids
}

// Reset discards the session entirely. Subsequent calls behave as if the
// engine was never started.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess = nil
}

// Snapshot returns a deep copy of the session, or nil when none is active.
func (e *Engine) Snapshot() *domain.DiscoverySession {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil
	}
	cp := *e.sess
	cp.Answers = append([]domain.DiscoveryAnswer(nil), e.sess.Answers...)
	cp.Suggestions = append([]string(nil), e.sess.Suggestions...)
	return &cp
}

// Resume replaces the engine's session with a previously captured snapshot.
// A nil snapshot clears the session, mirroring Reset.
func (e *Engine) Resume(sess *domain.DiscoverySession) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sess == nil {
		e.sess = nil
		return
	}
	cp := *sess
	cp.Answers = append([]domain.DiscoveryAnswer(nil), sess.Answers...)
	cp.Suggestions = append([]string(nil), sess.Suggestions...)
	e.sess = &cp
}
