package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/adapters/memory"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/discovery"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Builtin()
	require.NoError(t, err)
	srv, err := NewServer(session.NewManager(memory.NewStore(), cat), cat)
	require.NoError(t, err)
	return srv
}

func TestDecodeArgs_WeakTyping(t *testing.T) {
	// JSON numbers arrive as float64; the decoder must coerce them.
	var req matchArgs
	err := decodeArgs(map[string]interface{}{
		"input": "beneficiary",
		"limit": float64(3),
	}, &req)
	require.NoError(t, err)
	assert.Equal(t, "beneficiary", req.Input)
	assert.Equal(t, 3, req.Limit)
}

func TestHandleMatchIntent(t *testing.T) {
	srv := newTestServer(t)

	out, err := srv.handleMatchIntent(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"input": "I want to change my beneficiary",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Candidates)
	assert.Equal(t, "beneficiary-change", out.Candidates[0].TemplateID)
}

func TestDiscoveryTools_FullWalk(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	args := map[string]interface{}{"session_id": "mcp-test"}

	out, err := srv.handleDiscoveryStart(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	require.NotNil(t, out.Question)
	assert.Equal(t, "intent", out.Question.ID)

	out, err = srv.handleDiscoveryAnswer(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "mcp-test",
		"answer":     discovery.AnswerPolicyLoan,
	})
	require.NoError(t, err)
	assert.False(t, out.Completed)
	require.NotNil(t, out.Question)
	assert.Equal(t, "loan-detail", out.Question.ID)

	out, err = srv.handleDiscoveryAnswer(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "mcp-test",
		"answer":     "about $2,000",
	})
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, []string{"policy-loan"}, out.Suggestions)
}

func TestElicitationAnswer_ValidationIsContentNotError(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.handleElicitationStart(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id":  "mcp-val",
		"template_id": "address-change",
	})
	require.NoError(t, err)

	// Too short for the policy number field: the handler must surface the
	// rejection in the payload and repeat the question.
	out, err := srv.handleElicitationAnswer(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "mcp-val",
		"answer":     "ab",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Validation)
	assert.Equal(t, domain.TooShort, out.Validation.Kind)
	require.NotNil(t, out.Question)
	assert.Equal(t, "policy_number", out.Question.ID)
}

func TestElicitationStart_UnknownTemplate(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.handleElicitationStart(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"session_id":  "mcp-missing",
		"template_id": "no-such-form",
	})
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
}
