// Package discovery implements the guided questionnaire that narrows the
// template choice. The question graph is declarative data kept apart from
// the engine, so branching and suggestion tables can be audited and tested
// on their own.
package discovery

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/formpilot/formpilot/pkg/domain"
)

// Node is one question in the discovery graph.
type Node struct {
	ID     string `json:"id" yaml:"id"`
	Prompt string `json:"prompt" yaml:"prompt"`

	// Options lists the suggested answers shown to the user. Purely
	// presentational: any free text is accepted.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// FollowUp maps exact expected answer text to the next node id. An
	// answer absent from the map (or an empty map) ends the session.
	FollowUp map[string]string `json:"follow_up,omitempty" yaml:"follow_up,omitempty"`
}

// Question converts the node into its presentation form.
func (n Node) Question() domain.Question {
	kind := domain.QuestionText
	if len(n.Options) > 0 {
		kind = domain.QuestionChoice
	}
	return domain.Question{
		ID:      n.ID,
		Prompt:  n.Prompt,
		Kind:    kind,
		Options: n.Options,
	}
}

// Graph is an immutable question tree with a designated root.
type Graph struct {
	rootID string
	nodes  map[string]Node
}

// NewGraph validates node ids, follow-up targets and reachability before
// handing back a usable graph.
func NewGraph(rootID string, nodes []Node) (*Graph, error) {
	g := &Graph{
		rootID: rootID,
		nodes:  make(map[string]Node, len(nodes)),
	}
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node missing id")
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		g.nodes[n.ID] = n
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// RootID returns the id of the designated entry node.
func (g *Graph) RootID() string {
	return g.rootID
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node, root first, the rest sorted by id so the
// output is deterministic.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for id, n := range g.nodes {
		if id == g.rootID {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return append([]Node{g.nodes[g.rootID]}, out...)
}

// Next applies the transition function: the next node id for an answer, or
// "" when the answer has no follow-up and the walk ends.
func (g *Graph) Next(nodeID, answerText string) string {
	n, ok := g.nodes[nodeID]
	if !ok {
		return ""
	}
	return n.FollowUp[answerText]
}

// validate crawls the graph from the root, collecting broken follow-up links
// and unreachable nodes.
func (g *Graph) validate() error {
	if _, ok := g.nodes[g.rootID]; !ok {
		return fmt.Errorf("root node %q not found", g.rootID)
	}

	visited := make(map[string]bool, len(g.nodes))
	queue := []string{g.rootID}
	var problems []string

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		node := g.nodes[currentID]
		for answerText, target := range node.FollowUp {
			if _, ok := g.nodes[target]; !ok {
				problems = append(problems, fmt.Sprintf("node %q: answer %q points to missing node %q", currentID, answerText, target))
				continue
			}
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	for id := range g.nodes {
		if !visited[id] {
			problems = append(problems, fmt.Sprintf("node %q is unreachable from root", id))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid graph:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// graphFile is the on-disk shape of a graph document.
type graphFile struct {
	Root  string `yaml:"root"`
	Nodes []Node `yaml:"nodes"`
}

// ParseGraph builds a graph from YAML bytes.
func ParseGraph(data []byte) (*Graph, error) {
	var doc graphFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	return NewGraph(doc.Root, doc.Nodes)
}
