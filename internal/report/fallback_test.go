package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectFallbackMatchesHeadache(t *testing.T) {
	p := SelectFallback([]string{"pounding headache"}, "unwell", 28)
	require.NotNil(t, p)

	assert.Contains(t, p.ChiefComplaint, "headache")
	assert.NotEmpty(t, p.Assessment)
	assert.NotEmpty(t, p.OTCRecommendations)
	assert.NotEmpty(t, p.DiagnosticPlan.RedFlags)
	assert.NotEmpty(t, p.WhenToSeekHelp)
	assert.Equal(t, StandardDisclaimer, p.Disclaimer)

	// Caller inputs surface in the history section.
	assert.Contains(t, p.HistoryPresentIllness, "28-year-old")
	assert.Contains(t, p.HistoryPresentIllness, "pounding headache")
}

func TestSelectFallbackMatchesFeelingText(t *testing.T) {
	// Keyword may appear in the feeling description, not the symptom list.
	p := SelectFallback([]string{"general discomfort"}, "feverish and tired", 40)
	require.NotNil(t, p)
	assert.Contains(t, p.ChiefComplaint, "fever")
}

func TestSelectFallbackNoMatch(t *testing.T) {
	assert.Nil(t, SelectFallback([]string{"ingrown toenail"}, "annoyed", 50))
}

func TestSelectFallbackFirstCategoryWins(t *testing.T) {
	// Headache is listed before fever, so a combined presentation picks it.
	p := SelectFallback([]string{"headache", "fever"}, "unwell", 30)
	require.NotNil(t, p)
	assert.Contains(t, p.ChiefComplaint, "headache")
}

func TestMatchSymptoms(t *testing.T) {
	got := MatchSymptoms("I've had a migraine since yesterday and I keep throwing up")
	assert.Equal(t, []string{"headache", "nausea"}, got)
}

func TestMatchSymptomsCaseInsensitive(t *testing.T) {
	got := MatchSymptoms("TERRIBLE SORE THROAT")
	assert.Equal(t, []string{"sore throat"}, got)
}

func TestMatchSymptomsEmpty(t *testing.T) {
	assert.Empty(t, MatchSymptoms("everything is fine"))
}
