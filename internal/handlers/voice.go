package handlers

import (
	"symptom-checker-server/internal/report"
	"symptom-checker-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// VoiceHandler maps free-text transcripts to known symptom names so the
// client can prefill the assessment form from speech input.
type VoiceHandler struct{}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler() *VoiceHandler {
	return &VoiceHandler{}
}

// MatchRequest represents the request body for transcript matching.
type MatchRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

// MatchResponse represents the symptoms recognized in a transcript.
type MatchResponse struct {
	Symptoms []string `json:"symptoms"`
}

// Match extracts recognized symptom keywords from a transcript.
func (h *VoiceHandler) Match(c *gin.Context) {
	var req MatchRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	utils.Success(c, "Transcript matched", MatchResponse{
		Symptoms: report.MatchSymptoms(req.Transcript),
	})
}
