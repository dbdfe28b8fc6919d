package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/formpilot/formpilot/internal/logging"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/discovery"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/elicit"
	"github.com/formpilot/formpilot/pkg/ports"
)

// Workspace gives a callback scoped access to a session's engines. Both
// engines are rehydrated from the stored record before the callback runs
// and snapshotted back afterwards.
type Workspace struct {
	Discovery   *discovery.Engine
	Elicitation *elicit.Engine
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to sessions. It uses reference counting to
// garbage collect unused locks.
type Manager struct {
	store   ports.SessionStore
	catalog *catalog.Catalog

	mu    sync.Mutex // guards the lock map
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger

	discoveryOpts []discovery.Option
	elicitOpts    []elicit.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL. Default is 30 seconds.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithDiscoveryOptions forwards options to the discovery engines the
// manager builds per session.
func WithDiscoveryOptions(opts ...discovery.Option) Option {
	return func(m *Manager) {
		m.discoveryOpts = opts
	}
}

// WithElicitationOptions forwards options to the elicitation engines the
// manager builds per session.
func WithElicitationOptions(opts ...elicit.Option) Option {
	return func(m *Manager) {
		m.elicitOpts = opts
	}
}

// NewManager creates a session Manager over the given store and catalog.
func NewManager(store ports.SessionStore, c *catalog.Catalog, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		catalog: c,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// withLock executes fn while holding the local (and, when configured,
// distributed) lock for the session.
func (m *Manager) withLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// WithSession runs fn against the session's engines while holding its
// lock. A missing record starts a fresh session. The engines' state is
// persisted after fn returns, even when fn returns an error, so a failed
// answer submission does not lose preceding progress.
func (m *Manager) WithSession(ctx context.Context, sessionID string, fn func(context.Context, *Workspace) error) error {
	return m.withLock(ctx, sessionID, func(ctx context.Context) error {
		rec, err := m.store.Load(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, domain.ErrSessionNotFound) {
				return fmt.Errorf("failed to load session: %w", err)
			}
			rec = &domain.Session{}
		}

		ws := &Workspace{
			Discovery:   discovery.New(m.catalog, m.discoveryOpts...),
			Elicitation: elicit.New(m.catalog, m.elicitOpts...),
		}
		ws.Discovery.Resume(rec.Discovery)
		if err := ws.Elicitation.Resume(rec.Elicitation); err != nil {
			return fmt.Errorf("failed to rehydrate session %s: %w", sessionID, err)
		}

		fnErr := fn(ctx, ws)

		rec.Discovery = ws.Discovery.Snapshot()
		rec.Elicitation = ws.Elicitation.Snapshot()
		if err := m.store.Save(ctx, sessionID, rec); err != nil {
			if fnErr != nil {
				m.logger.Warn("failed to persist session after callback error",
					"session_id", sessionID,
					"err", err,
				)
				return fnErr
			}
			return fmt.Errorf("failed to persist session: %w", err)
		}
		return fnErr
	})
}

// Load retrieves a session record from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var rec *domain.Session
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		rec, err = m.store.Load(ctx, sessionID)
		return err
	})
	return rec, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.withLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
