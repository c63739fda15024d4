package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPayload() *Payload {
	return &Payload{
		ChiefComplaint:        "Patient reports a persistent headache.",
		HistoryPresentIllness: "34-year-old with two days of headache.",
		Assessment:            "Most consistent with tension-type headache.",
		OTCRecommendations:    []OTCRecommendation{{Medicine: "Ibuprofen"}},
		WhenToSeekHelp:        "Seek care for sudden severe headache.",
		Disclaimer:            StandardDisclaimer,
	}
}

func TestValidatePayloadComplete(t *testing.T) {
	assert.NoError(t, ValidatePayload(validPayload()))
}

func TestValidatePayloadMissingFields(t *testing.T) {
	p := validPayload()
	p.Assessment = "   "
	p.OTCRecommendations = nil

	err := ValidatePayload(p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assessment")
	assert.Contains(t, err.Error(), "otc_recommendations")
}

func TestMentionsSymptom(t *testing.T) {
	p := validPayload()

	assert.True(t, MentionsSymptom(p, []string{"headache"}))
	// Per-word match: one word of a multiword symptom is enough.
	assert.True(t, MentionsSymptom(p, []string{"severe headache"}))
	// Case-insensitive.
	assert.True(t, MentionsSymptom(p, []string{"HEADACHE"}))
	// A report that never references the complaint is suspect.
	assert.False(t, MentionsSymptom(p, []string{"rash"}))
}

func TestMentionsSymptomIgnoresShortWords(t *testing.T) {
	// Words under three characters are too common to count as a mention.
	p := validPayload()
	assert.False(t, MentionsSymptom(p, []string{"of a"}))
}
