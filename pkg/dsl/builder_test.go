package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/discovery"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/dsl"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := dsl.New("intent")

	b.Ask("intent").
		Prompt("What do you need help with?").
		OptionTo("I moved", "new-address").
		Option("Something else")

	b.Ask("new-address").
		Prompt("What is your new address?")

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "intent", g.RootID())

	root, ok := g.Node("intent")
	require.True(t, ok)
	assert.Equal(t, []string{"I moved", "Something else"}, root.Options)
	assert.Equal(t, "new-address", g.Next("intent", "I moved"))
	assert.Empty(t, g.Next("intent", "Something else"))

	leaf, ok := g.Node("new-address")
	require.True(t, ok)
	assert.Equal(t, domain.QuestionText, leaf.Question().Kind)
}

func TestBuilder_ThenChaining(t *testing.T) {
	b := dsl.New("start")

	b.Ask("start").
		Prompt("Ready?").
		OptionTo("Yes", "details").
		Then("details").
		Prompt("Tell me more.")

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "details", g.Next("start", "Yes"))
}

func TestBuilder_AskIsIdempotent(t *testing.T) {
	b := dsl.New("start")

	b.Ask("start").Prompt("First?")
	b.Ask("start").OptionTo("Go", "end")
	b.Ask("end").Prompt("Done.")

	g, err := b.Build()
	require.NoError(t, err)

	node, ok := g.Node("start")
	require.True(t, ok)
	assert.Equal(t, "First?", node.Prompt)
	assert.Equal(t, "end", g.Next("start", "Go"))
}

func TestBuilder_RejectsBrokenGraph(t *testing.T) {
	b := dsl.New("start")
	b.Ask("start").OptionTo("Go", "missing")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestBuilder_GraphDrivesEngine(t *testing.T) {
	b := dsl.New("topic")

	b.Ask("topic").
		Prompt("What is this about?").
		OptionTo("My policy moved with me", "where").
		Option("Other")

	b.Ask("where").
		Prompt("Where did you move?")

	g, err := b.Build()
	require.NoError(t, err)

	eng := discovery.New(catalog.MustBuiltin(), discovery.WithGraph(g))
	eng.Start()

	step, err := eng.SubmitAnswer("My policy moved with me")
	require.NoError(t, err)
	assert.False(t, step.Completed)

	// "moved" is an address-change keyword, so the scan picks it up.
	step, err = eng.SubmitAnswer("We moved to Springfield")
	require.NoError(t, err)
	require.True(t, step.Completed)
	assert.Contains(t, step.Suggestions, "address-change")
}
