package domain

// MatchCandidate is a scored pairing of free text against one template.
// Ephemeral: recomputed per query, never persisted.
type MatchCandidate struct {
	TemplateID string  `json:"template_id"`
	Confidence float64 `json:"confidence"`

	// MatchedKeywords lists the keyword hits that contributed to the score,
	// in catalog declaration order. May be empty when only patterns matched.
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}
