package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/adapters/memory"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	sess := &domain.Session{
		Elicitation: &domain.ElicitationSession{
			TemplateID: "policy-loan",
			Answers:    map[string]string{"policy_number": "POL-1"},
		},
	}
	require.NoError(t, store.Save(ctx, "s1", sess))

	// Mutating the original after Save must not affect the stored copy.
	sess.Elicitation.Answers["policy_number"] = "POL-2"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "POL-1", loaded.Elicitation.Answers["policy_number"])

	// Mutating a loaded copy must not affect the store either.
	loaded.Elicitation.Answers["policy_number"] = "POL-3"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "POL-1", again.Elicitation.Answers["policy_number"])
}
