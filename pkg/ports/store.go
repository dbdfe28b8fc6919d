package ports

import (
	"context"

	"github.com/formpilot/formpilot/pkg/domain"
)

// SessionStore persists per-user session records, enabling a serving layer
// to resume discovery/elicitation walks across requests and replicas.
type SessionStore interface {
	// Save persists the record for a given session ID.
	Save(ctx context.Context, sessionID string, sess *domain.Session) error

	// Load retrieves the record for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the record for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all known sessions.
	List(ctx context.Context) ([]string, error)
}
