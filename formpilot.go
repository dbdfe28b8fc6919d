package formpilot

import (
	"fmt"
	"log/slog"

	"github.com/formpilot/formpilot/internal/logging"
	"github.com/formpilot/formpilot/pkg/adapters/memory"
	"github.com/formpilot/formpilot/pkg/answer"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/discovery"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/elicit"
	"github.com/formpilot/formpilot/pkg/match"
	"github.com/formpilot/formpilot/pkg/ports"
	"github.com/formpilot/formpilot/pkg/session"
)

// Assistant is the high-level entry point for the library. It wraps the
// catalog, matcher and session manager behind a simplified API.
type Assistant struct {
	catalog  *catalog.Catalog
	matcher  *match.Matcher
	sessions *session.Manager

	store             ports.SessionStore
	locker            ports.DistributedLocker
	logger            *slog.Logger
	defaultSuggestion string
	dateLayout        string
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithCatalog replaces the embedded template catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *Assistant) {
		a.catalog = c
	}
}

// WithStore backs sessions with a custom store instead of process memory.
func WithStore(store ports.SessionStore) Option {
	return func(a *Assistant) {
		a.store = store
	}
}

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *Assistant) {
		a.locker = locker
	}
}

// WithLogger sets a structured logger for the engines and session layer.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithDefaultSuggestion overrides the discovery fallback template id.
func WithDefaultSuggestion(templateID string) Option {
	return func(a *Assistant) {
		a.defaultSuggestion = templateID
	}
}

// WithDateLayout changes the accepted date format for answers.
func WithDateLayout(layout string) Option {
	return func(a *Assistant) {
		a.dateLayout = layout
	}
}

// New initializes an Assistant. With no options it uses the embedded
// catalog and an in-memory session store.
func New(opts ...Option) (*Assistant, error) {
	a := &Assistant{}
	for _, opt := range opts {
		opt(a)
	}

	if a.catalog == nil {
		c, err := catalog.Builtin()
		if err != nil {
			return nil, fmt.Errorf("failed to load builtin catalog: %w", err)
		}
		a.catalog = c
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.store == nil {
		a.store = memory.NewStore()
	}

	matcher, err := match.New(a.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build matcher: %w", err)
	}
	a.matcher = matcher

	var discoveryOpts []discovery.Option
	if a.defaultSuggestion != "" {
		if !a.catalog.Has(a.defaultSuggestion) {
			return nil, fmt.Errorf("%w: default suggestion %s", domain.ErrTemplateNotFound, a.defaultSuggestion)
		}
		discoveryOpts = append(discoveryOpts, discovery.WithDefaultSuggestion(a.defaultSuggestion))
	}
	discoveryOpts = append(discoveryOpts, discovery.WithLogger(a.logger))

	elicitOpts := []elicit.Option{elicit.WithLogger(a.logger)}
	if a.dateLayout != "" {
		elicitOpts = append(elicitOpts, elicit.WithValidator(answer.New(answer.WithDateLayout(a.dateLayout))))
	}

	managerOpts := []session.Option{
		session.WithLogger(a.logger),
		session.WithDiscoveryOptions(discoveryOpts...),
		session.WithElicitationOptions(elicitOpts...),
	}
	if a.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(a.locker))
	}
	a.sessions = session.NewManager(a.store, a.catalog, managerOpts...)

	return a, nil
}

// Catalog returns the template catalog.
func (a *Assistant) Catalog() *catalog.Catalog {
	return a.catalog
}

// Templates lists every template in catalog order.
func (a *Assistant) Templates() []domain.Template {
	return a.catalog.Templates()
}

// Template looks up one template by id.
func (a *Assistant) Template(id string) (domain.Template, error) {
	return a.catalog.Get(id)
}

// Match scores free text against the catalog and returns at most limit
// candidates (limit <= 0 means all), best first.
func (a *Assistant) Match(input string, limit int) []domain.MatchCandidate {
	return a.matcher.Top(input, limit)
}

// Sessions returns the session manager for stateful flows.
func (a *Assistant) Sessions() *session.Manager {
	return a.sessions
}

// NewDiscovery builds a standalone discovery engine for callers that manage
// their own state, e.g. a single-user CLI.
func (a *Assistant) NewDiscovery() *discovery.Engine {
	opts := []discovery.Option{discovery.WithLogger(a.logger)}
	if a.defaultSuggestion != "" {
		opts = append(opts, discovery.WithDefaultSuggestion(a.defaultSuggestion))
	}
	return discovery.New(a.catalog, opts...)
}

// NewElicitation builds a standalone elicitation engine.
func (a *Assistant) NewElicitation() *elicit.Engine {
	opts := []elicit.Option{elicit.WithLogger(a.logger)}
	if a.dateLayout != "" {
		opts = append(opts, elicit.WithValidator(answer.New(answer.WithDateLayout(a.dateLayout))))
	}
	return elicit.New(a.catalog, opts...)
}
