package report

// OTCRecommendation is one over-the-counter medicine suggestion.
type OTCRecommendation struct {
	Medicine     string `json:"medicine"`
	Dosage       string `json:"dosage"`
	Purpose      string `json:"purpose"`
	Instructions string `json:"instructions"`
	Precautions  string `json:"precautions"`
	MaxDuration  string `json:"max_duration"`
}

// DiagnosticPlan lists recommended follow-up actions.
type DiagnosticPlan struct {
	Consultations []string `json:"consultations"`
	Tests         []string `json:"tests"`
	RedFlags      []string `json:"red_flags"`
	FollowUp      string   `json:"follow_up"`
}

// Payload is the structured medical report the model must return. The JSON
// field names are part of the wire format shared with the client.
type Payload struct {
	ChiefComplaint           string              `json:"chief_complaint"`
	HistoryPresentIllness    string              `json:"history_present_illness"`
	Assessment               string              `json:"assessment"`
	DiagnosticPlan           DiagnosticPlan      `json:"diagnostic_plan"`
	OTCRecommendations       []OTCRecommendation `json:"otc_recommendations"`
	LifestyleRecommendations []string            `json:"lifestyle_recommendations"`
	WhenToSeekHelp           string              `json:"when_to_seek_help"`
	Disclaimer               string              `json:"disclaimer,omitempty"`
}

// Disclaimer attached to every generated report.
const StandardDisclaimer = "This assessment is for informational purposes only. Always consult healthcare professionals for medical advice."
