package report

import (
	"fmt"
	"strings"
)

// ValidatePayload checks that the model filled in every required field of the
// report schema.
func ValidatePayload(p *Payload) error {
	var missing []string
	if strings.TrimSpace(p.ChiefComplaint) == "" {
		missing = append(missing, "chief_complaint")
	}
	if strings.TrimSpace(p.HistoryPresentIllness) == "" {
		missing = append(missing, "history_present_illness")
	}
	if strings.TrimSpace(p.Assessment) == "" {
		missing = append(missing, "assessment")
	}
	if strings.TrimSpace(p.WhenToSeekHelp) == "" {
		missing = append(missing, "when_to_seek_help")
	}
	if len(p.OTCRecommendations) == 0 {
		missing = append(missing, "otc_recommendations")
	}
	if len(missing) > 0 {
		return fmt.Errorf("report missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MentionsSymptom reports whether at least one word of any reported symptom
// appears in the generated assessment or chief complaint. A report that never
// references the patient's complaints is treated as suspect. Matching is
// case-insensitive and per-word so multiword symptoms still count when only
// one of their words appears.
func MentionsSymptom(p *Payload, symptoms []string) bool {
	text := strings.ToLower(p.Assessment + " " + p.ChiefComplaint)
	for _, symptom := range symptoms {
		for _, word := range strings.Fields(strings.ToLower(symptom)) {
			if len(word) < 3 {
				continue
			}
			if strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}
