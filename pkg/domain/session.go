package domain

// DiscoveryAnswer is one recorded step of a discovery walk. Answers are kept
// as an ordered list so insertion order equals question order.
type DiscoveryAnswer struct {
	NodeID string `json:"node_id"`
	Text   string `json:"text"`
}

// DiscoverySession is the serializable snapshot of a discovery walk.
type DiscoverySession struct {
	// CurrentNodeID is empty once the session is complete.
	CurrentNodeID string            `json:"current_node_id,omitempty"`
	Answers       []DiscoveryAnswer `json:"answers"`
	Completed     bool              `json:"completed"`

	// Suggestions is populated exactly once, at completion. Never empty on a
	// completed session.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Answer returns the recorded answer for a node id.
func (s *DiscoverySession) Answer(nodeID string) (string, bool) {
	for _, a := range s.Answers {
		if a.NodeID == nodeID {
			return a.Text, true
		}
	}
	return "", false
}

// ElicitationSession is the serializable snapshot of an elicitation walk.
// The question list is not stored; it is re-derived from the template's
// field schema, which is fixed for the life of the process.
type ElicitationSession struct {
	TemplateID string            `json:"template_id"`
	Index      int               `json:"index"`
	Answers    map[string]string `json:"answers"`
	Completed  bool              `json:"completed"`
}

// Session is the combined per-user record persisted by a SessionStore.
type Session struct {
	Discovery   *DiscoverySession   `json:"discovery,omitempty"`
	Elicitation *ElicitationSession `json:"elicitation,omitempty"`
}
