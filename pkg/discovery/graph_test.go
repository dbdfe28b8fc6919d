package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/discovery"
	"github.com/formpilot/formpilot/pkg/domain"
)

func TestBuiltinGraph_Valid(t *testing.T) {
	g := discovery.BuiltinGraph()
	root, ok := g.Node(g.RootID())
	require.True(t, ok)
	assert.NotEmpty(t, root.Prompt)
	assert.NotEmpty(t, root.Options)
}

func TestNewGraph_MissingRoot(t *testing.T) {
	_, err := discovery.NewGraph("root", []discovery.Node{{ID: "other", Prompt: "?"}})
	assert.ErrorContains(t, err, `root node "root" not found`)
}

func TestNewGraph_BrokenLink(t *testing.T) {
	_, err := discovery.NewGraph("root", []discovery.Node{
		{ID: "root", Prompt: "?", FollowUp: map[string]string{"go": "missing"}},
	})
	assert.ErrorContains(t, err, "missing node")
}

func TestNewGraph_UnreachableNode(t *testing.T) {
	_, err := discovery.NewGraph("root", []discovery.Node{
		{ID: "root", Prompt: "?"},
		{ID: "island", Prompt: "?"},
	})
	assert.ErrorContains(t, err, "unreachable")
}

func TestNewGraph_DuplicateID(t *testing.T) {
	_, err := discovery.NewGraph("root", []discovery.Node{
		{ID: "root", Prompt: "?"},
		{ID: "root", Prompt: "again"},
	})
	assert.ErrorContains(t, err, "duplicate node id")
}

func TestGraph_Next(t *testing.T) {
	g, err := discovery.NewGraph("a", []discovery.Node{
		{ID: "a", Prompt: "?", FollowUp: map[string]string{"yes": "b"}},
		{ID: "b", Prompt: "!"},
	})
	require.NoError(t, err)

	assert.Equal(t, "b", g.Next("a", "yes"))
	assert.Equal(t, "", g.Next("a", "no"))
	assert.Equal(t, "", g.Next("b", "anything"))
	assert.Equal(t, "", g.Next("nope", "yes"))
}

func TestNode_Question(t *testing.T) {
	free := discovery.Node{ID: "n1", Prompt: "Describe it."}
	assert.Equal(t, domain.QuestionText, free.Question().Kind)

	choice := discovery.Node{ID: "n2", Prompt: "Pick one.", Options: []string{"A", "B"}}
	q := choice.Question()
	assert.Equal(t, domain.QuestionChoice, q.Kind)
	assert.Equal(t, []string{"A", "B"}, q.Options)
}

func TestParseGraph(t *testing.T) {
	data := []byte(`
root: start
nodes:
  - id: start
    prompt: Ready?
    options: [Yes, No]
    follow_up:
      "Yes": next
  - id: next
    prompt: Done.
`)
	g, err := discovery.ParseGraph(data)
	require.NoError(t, err)
	assert.Equal(t, "start", g.RootID())
	assert.Equal(t, "next", g.Next("start", "Yes"))
}
