// Package graph renders the discovery questionnaire as a Mermaid
// flowchart, for documentation and for eyeballing branch coverage.
package graph

import (
	"fmt"
	"strings"

	"github.com/formpilot/formpilot/pkg/discovery"
	"github.com/formpilot/formpilot/pkg/domain"
)

// Overlay contains session state to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromSession derives the overlay from a discovery session.
func OverlayFromSession(sess *domain.DiscoverySession) *Overlay {
	if sess == nil {
		return nil
	}
	o := &Overlay{CurrentNode: sess.CurrentNodeID}
	for _, a := range sess.Answers {
		o.VisitedNodes = append(o.VisitedNodes, a.NodeID)
	}
	return o
}

// GenerateMermaid produces Mermaid flowchart syntax from the graph.
// Shapes carry meaning:
// - Root: ((Circle))
// - Choice question: [/Parallelogram/]
// - Free text: [Rectangle]
// Edges are labeled with the answer that triggers them; terminal nodes
// (no follow-ups) get a dotted edge to an end marker.
func GenerateMermaid(g *discovery.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	hasTerminal := false
	for _, node := range g.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == g.RootID():
			opener, closer = "((", "))"
		case len(node.Options) > 0:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer)

		if len(node.FollowUp) == 0 {
			hasTerminal = true
			fmt.Fprintf(&sb, "    %s -.-> done\n", safeID)
			continue
		}

		// Iterate options first so edge order follows the on-screen order,
		// then any follow-ups keyed on answers outside the option list.
		emitted := make(map[string]bool, len(node.FollowUp))
		for _, answer := range node.Options {
			if target, ok := node.FollowUp[answer]; ok {
				emitEdge(&sb, safeID, answer, target)
				emitted[answer] = true
			}
		}
		for answer, target := range node.FollowUp {
			if !emitted[answer] {
				emitEdge(&sb, safeID, answer, target)
			}
		}
		// Options without a follow-up fall through to completion.
		for _, answer := range node.Options {
			if _, ok := node.FollowUp[answer]; !ok {
				hasTerminal = true
				fmt.Fprintf(&sb, "    %s -.-> done\n", safeID)
				break
			}
		}
	}
	if hasTerminal {
		sb.WriteString("    done((\"suggestions\"))\n")
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on both light and dark themes
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func emitEdge(sb *strings.Builder, fromID, answer, target string) {
	safeAnswer := strings.ReplaceAll(answer, "\"", "'")
	fmt.Fprintf(sb, "    %s -- \"%s\" --> %s\n", fromID, safeAnswer, sanitizeMermaidID(target))
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
