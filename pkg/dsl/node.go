package dsl

import "github.com/formpilot/formpilot/pkg/discovery"

// NodeBuilder provides a fluent API for configuring a question node.
type NodeBuilder struct {
	node    discovery.Node
	builder *Builder
}

// Prompt sets the question text shown to the user.
func (n *NodeBuilder) Prompt(text string) *NodeBuilder {
	n.node.Prompt = text
	return n
}

// Option adds a suggested answer without a follow-up: choosing it ends
// the questionnaire.
func (n *NodeBuilder) Option(answer string) *NodeBuilder {
	n.node.Options = append(n.node.Options, answer)
	return n
}

// OptionTo adds a suggested answer that routes to the target node.
func (n *NodeBuilder) OptionTo(answer, target string) *NodeBuilder {
	n.node.Options = append(n.node.Options, answer)
	return n.On(answer, target)
}

// On routes an exact answer to the target node without listing it as an
// option. Useful for hidden shortcuts alongside free-text questions.
func (n *NodeBuilder) On(answer, target string) *NodeBuilder {
	if n.node.FollowUp == nil {
		n.node.FollowUp = make(map[string]string)
	}
	n.node.FollowUp[answer] = target
	return n
}

// Then creates (or returns) the target node's builder, for defining a
// branch inline right after routing to it.
func (n *NodeBuilder) Then(target string) *NodeBuilder {
	return n.builder.Ask(target)
}

// Node returns the underlying discovery.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Node() discovery.Node {
	return n.node
}
