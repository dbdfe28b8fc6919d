package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/domain"
	"github.com/formpilot/formpilot/pkg/match"
)

func newMatcher(t *testing.T) *match.Matcher {
	t.Helper()
	c, err := catalog.Builtin()
	require.NoError(t, err)
	m, err := match.New(c)
	require.NoError(t, err)
	return m
}

func TestScore_EmptyInput(t *testing.T) {
	m := newMatcher(t)
	assert.Empty(t, m.Score(""))
	assert.Empty(t, m.Score("   \t  "))
}

func TestScore_UnknownWords(t *testing.T) {
	m := newMatcher(t)
	assert.Empty(t, m.Score("zyzzyva qwertyuiop"))
}

func TestScore_BeneficiaryChangeRanksFirst(t *testing.T) {
	m := newMatcher(t)

	scored := m.Score("I want to change my beneficiary")
	require.NotEmpty(t, scored)
	assert.Equal(t, "beneficiary-change", scored[0].TemplateID)
	assert.Greater(t, scored[0].Confidence, 0.7)
	assert.Contains(t, scored[0].MatchedKeywords, "beneficiary")
}

func TestScore_ConfidenceCapped(t *testing.T) {
	m := newMatcher(t)

	// Stacks keyword, pattern and id-phrase signals well past 1.0.
	scored := m.Score("please update the beneficiary change designation for my beneficiaries")
	require.NotEmpty(t, scored)
	assert.Equal(t, "beneficiary-change", scored[0].TemplateID)
	assert.InDelta(t, match.MaxConfidence, scored[0].Confidence, 1e-9)
}

func TestScore_IDPhraseBonus(t *testing.T) {
	m := newMatcher(t)

	with, ok := m.Best("I need the policy loan form")
	require.True(t, ok)
	assert.Equal(t, "policy-loan", with.TemplateID)

	// Same intent without the id phrase scores lower.
	without, ok := m.Best("I need to borrow money")
	require.True(t, ok)
	assert.Equal(t, "policy-loan", without.TemplateID)
	assert.Greater(t, with.Confidence, without.Confidence)
}

func TestScore_Idempotent(t *testing.T) {
	m := newMatcher(t)

	const input = "we moved and I lost my policy"
	first := m.Score(input)
	second := m.Score(input)
	assert.Equal(t, first, second)
}

func TestScore_CaseInsensitive(t *testing.T) {
	m := newMatcher(t)

	upper := m.Score("SURRENDER MY POLICY")
	lower := m.Score("surrender my policy")
	require.NotEmpty(t, upper)
	assert.Equal(t, lower[0].TemplateID, upper[0].TemplateID)
	assert.Equal(t, lower[0].Confidence, upper[0].Confidence)
}

func TestScore_TiesKeepCatalogOrder(t *testing.T) {
	c, err := catalog.New([]domain.Template{
		{
			ID: "form-a", Title: "A", Keywords: []string{"widget"},
			Fields: []domain.Field{{Name: "f", Prompt: "?", Kind: domain.FieldText}},
		},
		{
			ID: "form-b", Title: "B", Keywords: []string{"widget"},
			Fields: []domain.Field{{Name: "f", Prompt: "?", Kind: domain.FieldText}},
		},
	})
	require.NoError(t, err)
	m, err := match.New(c)
	require.NoError(t, err)

	scored := m.Score("a widget request")
	require.Len(t, scored, 2)
	assert.Equal(t, "form-a", scored[0].TemplateID)
	assert.Equal(t, "form-b", scored[1].TemplateID)
}

func TestTop_Limits(t *testing.T) {
	m := newMatcher(t)

	// "policy" appears in several templates' keywords.
	all := m.Score("surrender or loan against my lost policy")
	require.Greater(t, len(all), 1)

	top := m.Top("surrender or loan against my lost policy", 1)
	assert.Len(t, top, 1)
	assert.Equal(t, all[0], top[0])

	assert.Equal(t, all, m.Top("surrender or loan against my lost policy", 0))
	assert.Equal(t, all, m.Top("surrender or loan against my lost policy", len(all)+5))
}

func TestBest_NoMatch(t *testing.T) {
	m := newMatcher(t)
	_, ok := m.Best("")
	assert.False(t, ok)
}
