package handlers

import (
	"errors"
	"net/http"

	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/report"
	"symptom-checker-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReportHandler handles health report generation and retrieval.
type ReportHandler struct {
	DB      *gorm.DB
	Reports *report.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *gorm.DB, reports *report.Service) *ReportHandler {
	return &ReportHandler{DB: db, Reports: reports}
}

// Generate handles a symptom assessment request and returns the finished
// report. Cache hits and fallback reports come back through the same shape;
// the source field tells them apart.
func (h *ReportHandler) Generate(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req report.GenerateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	record, err := h.Reports.Generate(c.Request.Context(), userID.(string), req)
	if err != nil {
		if llm.IsQuotaError(err) {
			utils.QuotaExceeded(c, "The assessment service is over capacity, please retry shortly")
			return
		}
		if errors.Is(err, report.ErrGenerationFailed) {
			utils.Error(c, http.StatusInternalServerError, utils.CodeGenerationFailed, "Unable to generate a health report for these symptoms")
			return
		}
		utils.InternalServerError(c, "Failed to generate report: "+err.Error())
		return
	}

	utils.Created(c, "Health report generated", record)
}

// List returns the authenticated user's reports, newest first.
func (h *ReportHandler) List(c *gin.Context) {
	userID, _ := c.Get("userID")

	var reports []models.HealthReport
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reports: "+err.Error())
		return
	}

	utils.Success(c, "Reports fetched successfully", reports)
}

// Get returns a single report owned by the authenticated user.
func (h *ReportHandler) Get(c *gin.Context) {
	userID, _ := c.Get("userID")
	reportID := c.Param("id")

	var record models.HealthReport
	if err := h.DB.Where("id = ? AND user_id = ?", reportID, userID).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Failed to fetch report: "+err.Error())
		}
		return
	}

	utils.Success(c, "Report fetched successfully", record)
}

// Logs returns the audit trail of report generation. Admin only.
func (h *ReportHandler) Logs(c *gin.Context) {
	var logs []models.ReportLog
	query := h.DB.Order("created_at DESC").Limit(200)
	if event := c.Query("event"); event != "" {
		query = query.Where("event = ?", event)
	}
	if err := query.Find(&logs).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch report logs: "+err.Error())
		return
	}

	utils.Success(c, "Report logs fetched successfully", logs)
}
