package report

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model how to answer assessment requests.
const SystemPrompt = "You are an experienced AI physician assistant. Provide comprehensive health assessments based on symptoms and medical history. Always emphasize consulting healthcare professionals. Respond with valid JSON only."

// GenerateRequest is the validated input to report generation.
type GenerateRequest struct {
	Feeling     string   `json:"feeling" binding:"required"`
	Symptoms    []string `json:"symptoms" binding:"required,min=1"`
	Age         int      `json:"age" binding:"required,gte=1,lte=120"`
	History     string   `json:"history"`
	Medications string   `json:"medications"`
	Allergies   string   `json:"allergies"`
}

// BuildPrompt renders the fixed assessment prompt template. The JSON schema
// embedded here must stay in sync with Payload.
func BuildPrompt(req GenerateRequest) string {
	symptomsText := "none reported"
	if len(req.Symptoms) > 0 {
		symptomsText = strings.Join(req.Symptoms, ", ")
	}

	var history strings.Builder
	if req.History != "" {
		fmt.Fprintf(&history, "- Medical history: %s\n", req.History)
	}
	if req.Medications != "" {
		fmt.Fprintf(&history, "- Current medications: %s\n", req.Medications)
	}
	if req.Allergies != "" {
		fmt.Fprintf(&history, "- Allergies: %s\n", req.Allergies)
	}
	if history.Len() == 0 {
		history.WriteString("- No significant medical history reported\n")
	}

	return fmt.Sprintf(`PATIENT INFORMATION:
- Age: %d years
- Current symptoms: %s
- General feeling: %s

MEDICAL HISTORY:
%s
Please provide a comprehensive health assessment in the following JSON format:
{
    "chief_complaint": "Primary symptoms summary (1-2 sentences)",
    "history_present_illness": "Detailed history of present illness (2-3 sentences)",
    "assessment": "Medical assessment with likely diagnosis and differentials (3-4 sentences)",
    "diagnostic_plan": {
        "consultations": ["Recommended specialist consultations"],
        "tests": ["Recommended diagnostic tests"],
        "red_flags": ["Symptoms requiring immediate attention"],
        "follow_up": "Follow-up recommendations"
    },
    "otc_recommendations": [
        {
            "medicine": "Generic name (Brand name)",
            "dosage": "Age-appropriate dosage",
            "purpose": "What condition it treats",
            "instructions": "How and when to take",
            "precautions": "Important warnings and interactions",
            "max_duration": "Maximum duration of use"
        }
    ],
    "lifestyle_recommendations": ["Self-care and lifestyle advice"],
    "when_to_seek_help": "When to seek immediate medical attention"
}

IMPORTANT:
- Be medically accurate and conservative
- Always recommend professional medical consultation
- Only suggest FDA-approved OTC medications
- Include appropriate red flags for serious conditions`,
		req.Age, symptomsText, req.Feeling, history.String())
}
