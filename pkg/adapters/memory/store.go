// Package memory provides an in-process SessionStore, the default backing
// for single-instance deployments and tests.
package memory

import (
	"context"
	"sync"

	"github.com/formpilot/formpilot/pkg/domain"
)

// Store implements ports.SessionStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]*domain.Session
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Session),
	}
}

// Save persists a deep copy of the record so later caller mutations cannot
// leak into the store.
func (s *Store) Save(ctx context.Context, sessionID string, sess *domain.Session) error {
	cp := copySession(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = cp
	return nil
}

// Load retrieves a deep copy of the record.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return copySession(sess), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the known session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func copySession(sess *domain.Session) *domain.Session {
	if sess == nil {
		return nil
	}
	cp := &domain.Session{}
	if sess.Discovery != nil {
		d := *sess.Discovery
		d.Answers = append([]domain.DiscoveryAnswer(nil), sess.Discovery.Answers...)
		d.Suggestions = append([]string(nil), sess.Discovery.Suggestions...)
		cp.Discovery = &d
	}
	if sess.Elicitation != nil {
		e := *sess.Elicitation
		e.Answers = make(map[string]string, len(sess.Elicitation.Answers))
		for k, v := range sess.Elicitation.Answers {
			e.Answers[k] = v
		}
		cp.Elicitation = &e
	}
	return cp
}
