package dsl

import (
	"fmt"

	"github.com/formpilot/formpilot/pkg/discovery"
)

// Builder manages the graph construction.
type Builder struct {
	rootID string
	order  []string
	nodes  map[string]*NodeBuilder
}

// New creates a graph builder rooted at the given node id.
func New(rootID string) *Builder {
	return &Builder{
		rootID: rootID,
		nodes:  make(map[string]*NodeBuilder),
	}
}

// Ask creates a new question node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Ask(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: discovery.Node{
			ID: id,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the nodes into a validated graph.
func (b *Builder) Build() (*discovery.Graph, error) {
	nodes := make([]discovery.Node, 0, len(b.nodes))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].node)
	}

	g, err := discovery.NewGraph(b.rootID, nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}
