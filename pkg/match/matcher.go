// Package match scores free-text intent against the template catalog.
// Matching is purely lexical: keyword substrings, loose per-template regex
// patterns and an id-phrase bonus. There is no hidden state; identical input
// always yields identical output.
package match

import (
	"regexp"
	"sort"
	"strings"

	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/domain"
)

// Scoring weights. Signals are additive and the sum is capped at MaxConfidence.
const (
	// KeywordWeight is added per keyword found as a substring of the input.
	KeywordWeight = 0.3
	// PatternWeight is added per template pattern that matches the input.
	PatternWeight = 0.4
	// IDPhraseWeight is added once when the input contains the template id
	// with separators replaced by spaces ("loan-form" -> "loan form").
	IDPhraseWeight = 0.5

	// MinConfidence is the discard threshold: candidates scoring at or below
	// it are dropped from the result set.
	MinConfidence = 0.2
	MaxConfidence = 1.0
)

// Matcher scores input text against every template in a catalog.
type Matcher struct {
	catalog  *catalog.Catalog
	patterns map[string][]*regexp.Regexp
}

// New compiles the per-template patterns up front so a malformed pattern
// fails at construction, never at query time.
func New(c *catalog.Catalog) (*Matcher, error) {
	m := &Matcher{
		catalog:  c,
		patterns: make(map[string][]*regexp.Regexp, c.Len()),
	}
	for _, tpl := range c.Templates() {
		compiled := make([]*regexp.Regexp, 0, len(tpl.Patterns))
		for _, p := range tpl.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, re)
		}
		m.patterns[tpl.ID] = compiled
	}
	return m, nil
}

// Score returns all candidates above the confidence threshold, ordered by
// descending confidence. Ties keep catalog declaration order (stable sort).
// Empty or unmatched input yields an empty result; that is not an error.
func (m *Matcher) Score(input string) []domain.MatchCandidate {
	norm := strings.ToLower(strings.TrimSpace(input))
	if norm == "" {
		return nil
	}

	var out []domain.MatchCandidate
	for _, tpl := range m.catalog.Templates() {
		cand := m.scoreTemplate(tpl, norm)
		if cand.Confidence > MinConfidence {
			out = append(out, cand)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func (m *Matcher) scoreTemplate(tpl domain.Template, norm string) domain.MatchCandidate {
	cand := domain.MatchCandidate{TemplateID: tpl.ID}

	for _, kw := range tpl.Keywords {
		if strings.Contains(norm, strings.ToLower(kw)) {
			cand.Confidence += KeywordWeight
			cand.MatchedKeywords = append(cand.MatchedKeywords, kw)
		}
	}
	for _, re := range m.patterns[tpl.ID] {
		if re.MatchString(norm) {
			cand.Confidence += PatternWeight
		}
	}
	if strings.Contains(norm, idPhrase(tpl.ID)) {
		cand.Confidence += IDPhraseWeight
	}

	if cand.Confidence > MaxConfidence {
		cand.Confidence = MaxConfidence
	}
	return cand
}

// Best returns the highest-scoring candidate, if any.
func (m *Matcher) Best(input string) (domain.MatchCandidate, bool) {
	scored := m.Score(input)
	if len(scored) == 0 {
		return domain.MatchCandidate{}, false
	}
	return scored[0], true
}

// Top returns at most n candidates. n <= 0 means no limit.
func (m *Matcher) Top(input string, n int) []domain.MatchCandidate {
	scored := m.Score(input)
	if n <= 0 || n >= len(scored) {
		return scored
	}
	return scored[:n]
}

// idPhrase turns a template id into its natural-language form:
// separators become spaces.
func idPhrase(id string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(id)
}
