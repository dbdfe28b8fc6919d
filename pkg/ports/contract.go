package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/domain"
)

// RunSessionStoreContract verifies that a SessionStore implementation
// adheres to the interface contract. Adapter test files call this against
// their concrete store.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sess := &domain.Session{
			Discovery: &domain.DiscoverySession{
				CurrentNodeID: "intent",
				Answers:       []domain.DiscoveryAnswer{{NodeID: "intent", Text: "Surrender my policy"}},
			},
			Elicitation: &domain.ElicitationSession{
				TemplateID: "full-surrender",
				Index:      1,
				Answers:    map[string]string{"policy_number": "POL-12345"},
			},
		}

		err := store.Save(ctx, sessionID, sess)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		require.NotNil(t, loaded.Discovery)
		assert.Equal(t, "intent", loaded.Discovery.CurrentNodeID)
		require.Len(t, loaded.Discovery.Answers, 1)
		assert.Equal(t, "Surrender my policy", loaded.Discovery.Answers[0].Text)
		require.NotNil(t, loaded.Elicitation)
		assert.Equal(t, "full-surrender", loaded.Elicitation.TemplateID)
		assert.Equal(t, 1, loaded.Elicitation.Index)
		assert.Equal(t, "POL-12345", loaded.Elicitation.Answers["policy_number"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		err := store.Save(ctx, sessionID, &domain.Session{
			Discovery: &domain.DiscoverySession{CurrentNodeID: "surrender-type"},
		})
		require.NoError(t, err)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "surrender-type", loaded.Discovery.CurrentNodeID)
		assert.Nil(t, loaded.Elicitation, "overwrite must replace, not merge")
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, &domain.Session{})
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, &domain.Session{}))
		require.NoError(t, store.Save(ctx, id2, &domain.Session{}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
