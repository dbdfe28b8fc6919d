// Package elicit walks a user through a chosen template's fields one answer
// at a time, validating each against the field's declared constraints.
package elicit

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/formpilot/formpilot/internal/logging"
	"github.com/formpilot/formpilot/pkg/answer"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/domain"
)

// StepResult reports the outcome of a submitted answer.
type StepResult struct {
	Completed bool `json:"completed"`
	// Remaining is the number of questions still unanswered.
	Remaining int `json:"remaining"`
}

// Summary is a read-only snapshot of collected answers.
type Summary struct {
	TemplateID string            `json:"template_id"`
	Answers    map[string]string `json:"answers"`
	Completed  bool              `json:"completed"`
}

// Engine holds at most one elicitation session; Start discards any prior
// one. Safe for concurrent use by a serving layer.
type Engine struct {
	catalog   *catalog.Catalog
	validator *answer.Validator
	logger    *slog.Logger

	mu        sync.Mutex
	sess      *domain.ElicitationSession
	questions []domain.Question
}

// Option configures the Engine.
type Option func(*Engine)

// WithValidator replaces the default answer validator (e.g. to change the
// accepted date layout).
func WithValidator(v *answer.Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an elicitation engine over the catalog with no active session.
func New(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:   c,
		validator: answer.New(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Questions derives the ordered question list from a template's field
// schema, preserving declaration order.
func Questions(tpl domain.Template) []domain.Question {
	qs := make([]domain.Question, len(tpl.Fields))
	for i, f := range tpl.Fields {
		qs[i] = domain.Question{
			ID:       f.Name,
			Prompt:   f.Prompt,
			Kind:     domain.QuestionKindForField(f),
			Required: f.Required,
			Options:  f.Options,
			MinLen:   f.MinLen,
			MaxLen:   f.MaxLen,
			Min:      f.Min,
			Max:      f.Max,
		}
	}
	return qs
}

// Start begins a session for the template, discarding any prior session.
// Fails with domain.ErrTemplateNotFound for unknown ids; in that case no
// session is created and any prior session is left untouched.
func (e *Engine) Start(templateID string) error {
	tpl, err := e.catalog.Get(templateID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess = &domain.ElicitationSession{
		TemplateID: tpl.ID,
		Answers:    make(map[string]string, len(tpl.Fields)),
	}
	e.questions = Questions(tpl)
	return nil
}

// CurrentQuestion returns the question at the cursor, or nil when there is
// no active session or the cursor has passed the last question.
func (e *Engine) CurrentQuestion() *domain.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil || e.sess.Index >= len(e.questions) {
		return nil
	}
	q := e.questions[e.sess.Index]
	return &q
}

// SubmitAnswer validates the raw answer against the current question. On
// validation failure the cursor does not move and the error is returned for
// an in-place retry. On success the normalized value is stored and the
// cursor advances by one.
func (e *Engine) SubmitAnswer(raw string) (*StepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil, domain.ErrNoActiveSession
	}
	if e.sess.Index >= len(e.questions) {
		return nil, domain.ErrNoCurrentQuestion
	}

	q := e.questions[e.sess.Index]
	value, err := e.validator.Validate(q, raw)
	if err != nil {
		return nil, err
	}

	e.sess.Answers[q.ID] = value
	e.sess.Index++
	e.sess.Completed = e.sess.Index >= len(e.questions)
	if e.sess.Completed {
		e.logger.Debug("elicitation session complete",
			"template_id", e.sess.TemplateID,
			"answers", len(e.sess.Answers),
		)
	}
	return &StepResult{
		Completed: e.sess.Completed,
		Remaining: len(e.questions) - e.sess.Index,
	}, nil
}

// Reset discards the session entirely.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess = nil
	e.questions = nil
}

// Summary returns a read-only snapshot of the collected answers, or nil if
// no session was ever started.
func (e *Engine) Summary() *Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil
	}
	answers := make(map[string]string, len(e.sess.Answers))
	for k, v := range e.sess.Answers {
		answers[k] = v
	}
	return &Summary{
		TemplateID: e.sess.TemplateID,
		Answers:    answers,
		Completed:  e.sess.Completed,
	}
}

// Snapshot returns a deep copy of the session, or nil when none is active.
func (e *Engine) Snapshot() *domain.ElicitationSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil
	}
	cp := *e.sess
	cp.Answers = make(map[string]string, len(e.sess.Answers))
	for k, v := range e.sess.Answers {
		cp.Answers[k] = v
	}
	return &cp
}

// Resume replaces the engine's session with a previously captured snapshot,
// re-deriving the question list from the catalog. A nil snapshot clears the
// session.
func (e *Engine) Resume(sess *domain.ElicitationSession) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sess == nil {
		e.sess = nil
		e.questions = nil
		return nil
	}

	tpl, err := e.catalog.Get(sess.TemplateID)
	if err != nil {
		return fmt.Errorf("cannot resume session: %w", err)
	}
	questions := Questions(tpl)
	if sess.Index < 0 || sess.Index > len(questions) {
		return fmt.Errorf("cannot resume session: cursor %d out of range for %s", sess.Index, sess.TemplateID)
	}

	cp := *sess
	cp.Answers = make(map[string]string, len(sess.Answers))
	for k, v := range sess.Answers {
		cp.Answers[k] = v
	}
	e.sess = &cp
	e.questions = questions
	return nil
}
