package handlers

import (
	"errors"
	"strconv"
	"time"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/twin"
	"symptom-checker-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TwinHandler exposes the digital twin dashboard: timeline, learned
// patterns, severity trajectory, and proactive alerts.
type TwinHandler struct {
	Twins *twin.Service
}

// NewTwinHandler creates a new TwinHandler.
func NewTwinHandler(twins *twin.Service) *TwinHandler {
	return &TwinHandler{Twins: twins}
}

// Get returns the user's twin, creating it on first access.
func (h *TwinHandler) Get(c *gin.Context) {
	userID, _ := c.Get("userID")

	t, err := h.Twins.GetOrCreate(userID.(string))
	if err != nil {
		utils.InternalServerError(c, "Failed to load digital twin: "+err.Error())
		return
	}

	utils.Success(c, "Digital twin fetched successfully", t)
}

// Timeline returns the twin's health events, newest first.
func (h *TwinHandler) Timeline(c *gin.Context) {
	userID, _ := c.Get("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, err := h.Twins.Timeline(userID.(string), limit, offset)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch timeline: "+err.Error())
		return
	}

	utils.Success(c, "Timeline fetched successfully", events)
}

// RecordEventRequest represents a manually logged health event.
type RecordEventRequest struct {
	EventType    string   `json:"eventType" binding:"required,oneof=assessment symptom chat"`
	Symptoms     []string `json:"symptoms"`
	Severity     int      `json:"severity" binding:"gte=0,lte=10"`
	FeelingState string   `json:"feelingState"`
}

// RecordEvent logs a health event against the twin.
func (h *TwinHandler) RecordEvent(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req RecordEventRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	event, err := h.Twins.RecordEvent(userID.(string), models.HealthEvent{
		EventType:    models.HealthEventType(req.EventType),
		EventDate:    time.Now(),
		Symptoms:     req.Symptoms,
		Severity:     req.Severity,
		FeelingState: req.FeelingState,
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to record event: "+err.Error())
		return
	}

	utils.Created(c, "Health event recorded", event)
}

// Patterns recomputes and returns the twin's learned patterns.
func (h *TwinHandler) Patterns(c *gin.Context) {
	userID, _ := c.Get("userID")

	patterns, err := h.Twins.RefreshPatterns(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalServerError(c, "Failed to analyze patterns: "+err.Error())
		return
	}

	utils.Success(c, "Patterns fetched successfully", patterns)
}

// Trajectory projects the user's severity trend over a horizon.
func (h *TwinHandler) Trajectory(c *gin.Context) {
	userID, _ := c.Get("userID")

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	traj, err := h.Twins.Trajectory(userID.(string), days)
	if err != nil {
		utils.InternalServerError(c, "Failed to project trajectory: "+err.Error())
		return
	}

	utils.Success(c, "Trajectory projected successfully", traj)
}

// Alerts returns the twin's proactive alerts, unread first.
func (h *TwinHandler) Alerts(c *gin.Context) {
	userID, _ := c.Get("userID")

	alerts, err := h.Twins.Alerts(userID.(string))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch alerts: "+err.Error())
		return
	}

	utils.Success(c, "Alerts fetched successfully", alerts)
}

// MarkAlertRead marks one of the user's alerts as read.
func (h *TwinHandler) MarkAlertRead(c *gin.Context) {
	userID, _ := c.Get("userID")
	alertID := c.Param("id")

	if err := h.Twins.MarkAlertRead(userID.(string), alertID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Alert not found")
		} else {
			utils.InternalServerError(c, "Failed to update alert: "+err.Error())
		}
		return
	}

	utils.Success(c, "Alert marked as read", nil)
}
