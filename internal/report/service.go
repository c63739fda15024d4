package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/queue"
	"symptom-checker-server/internal/twin"
)

// ErrGenerationFailed means the model failed after retries and no fallback
// category matched the reported symptoms.
var ErrGenerationFailed = errors.New("report generation failed")

// Service runs the report pipeline: cache lookup, model call with retries,
// defensive parsing, post-hoc validation, fallback selection, persistence
// and audit logging.
type Service struct {
	db        *gorm.DB
	client    llm.Client
	cache     *CacheStore
	publisher *queue.Publisher
	twins     *twin.Service
	log       *zap.Logger
	model     string
}

// NewService wires the report pipeline.
func NewService(db *gorm.DB, client llm.Client, cache *CacheStore, publisher *queue.Publisher, twins *twin.Service, log *zap.Logger, model string) *Service {
	return &Service{
		db:        db,
		client:    client,
		cache:     cache,
		publisher: publisher,
		twins:     twins,
		log:       log,
		model:     model,
	}
}

// Generate runs a full assessment for the given user. The returned report is
// always persisted; on total failure its status is failed and
// ErrGenerationFailed (or the upstream quota error) is returned.
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (*models.HealthReport, error) {
	record := models.HealthReport{
		UserID:      userID,
		Age:         req.Age,
		Feeling:     req.Feeling,
		Symptoms:    models.StringList(req.Symptoms),
		History:     req.History,
		Medications: req.Medications,
		Allergies:   req.Allergies,
		Status:      models.ReportStatusProcessing,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create report record: %w", err)
	}
	s.audit(record.ID, userID, models.ReportLogRequestStarted, "")

	key := CacheKey(req.Symptoms, req.Feeling, req.Age)
	if payload := s.cache.Lookup(key); payload != nil {
		s.log.Info("report cache hit", zap.String("reportId", record.ID))
		return s.complete(ctx, &record, payload, models.ReportSourceCache)
	}

	payload, genErr := s.generateFromModel(ctx, &record, req)
	if payload != nil {
		s.cache.Put(key, payload)
		return s.complete(ctx, &record, payload, models.ReportSourceAI)
	}

	// Progressive fallback: a canned report for common presentations beats
	// an error page.
	if fallback := SelectFallback(req.Symptoms, req.Feeling, req.Age); fallback != nil {
		s.log.Warn("model generation failed, serving fallback report",
			zap.String("reportId", record.ID), zap.Error(genErr))
		return s.complete(ctx, &record, fallback, models.ReportSourceFallback)
	}

	s.audit(record.ID, userID, models.ReportLogRequestFailed, errString(genErr))
	s.db.Model(&record).Update("status", models.ReportStatusFailed)
	record.Status = models.ReportStatusFailed
	_ = s.publisher.Publish(ctx, queue.QueueReportFailed, queue.ReportEvent{
		ReportID:  record.ID,
		UserID:    userID,
		Status:    string(models.ReportStatusFailed),
		Timestamp: time.Now().UTC(),
	})

	if genErr != nil && llm.IsQuotaError(genErr) {
		return &record, genErr
	}
	return &record, ErrGenerationFailed
}

// generateFromModel calls the hosted model and parses/validates its reply.
// A nil payload with a non-nil error means the caller should fall back.
func (s *Service) generateFromModel(ctx context.Context, record *models.HealthReport, req GenerateRequest) (*Payload, error) {
	prompt := BuildPrompt(req)

	raw, err := s.client.CompleteWithSystem(ctx, SystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	jsonText, err := llm.ExtractJSON(raw)
	if err != nil {
		s.audit(record.ID, record.UserID, models.ReportLogRequestFailed, "unparseable model reply: "+err.Error())
		return nil, fmt.Errorf("model reply not parseable: %w", err)
	}

	var payload Payload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		s.audit(record.ID, record.UserID, models.ReportLogRequestFailed, "invalid report JSON: "+err.Error())
		return nil, fmt.Errorf("invalid report JSON: %w", err)
	}

	if err := ValidatePayload(&payload); err != nil {
		s.audit(record.ID, record.UserID, models.ReportLogValidationFailed, err.Error())
		return nil, err
	}
	if !MentionsSymptom(&payload, req.Symptoms) {
		s.audit(record.ID, record.UserID, models.ReportLogValidationFailed,
			"assessment does not reference any reported symptom")
		return nil, errors.New("assessment does not reference any reported symptom")
	}

	payload.Disclaimer = StandardDisclaimer
	return &payload, nil
}

// complete persists the final payload onto the report row, writes the audit
// entry, notifies consumers, and records a twin health event.
func (s *Service) complete(ctx context.Context, record *models.HealthReport, payload *Payload, source models.ReportSource) (*models.HealthReport, error) {
	reportJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	otcJSON, err := json.Marshal(payload.OTCRecommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OTC recommendations: %w", err)
	}

	modelUsed := s.model
	if source != models.ReportSourceAI {
		modelUsed = string(source)
	}

	updates := map[string]interface{}{
		"status":        models.ReportStatusCompleted,
		"report":        models.JSONBlob(reportJSON),
		"otc_medicines": models.JSONBlob(otcJSON),
		"source":        source,
		"model_used":    modelUsed,
	}
	if err := s.db.Model(record).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}
	record.Status = models.ReportStatusCompleted
	record.Report = models.JSONBlob(reportJSON)
	record.OTCMedicines = models.JSONBlob(otcJSON)
	record.Source = source
	record.ModelUsed = modelUsed

	s.audit(record.ID, record.UserID, models.ReportLogRequestCompleted, string(source))
	_ = s.publisher.Publish(ctx, queue.QueueReportCompleted, queue.ReportEvent{
		ReportID:  record.ID,
		UserID:    record.UserID,
		Status:    string(models.ReportStatusCompleted),
		Source:    string(source),
		Timestamp: time.Now().UTC(),
	})

	if _, err := s.twins.RecordEvent(record.UserID, models.HealthEvent{
		EventType:    models.EventTypeAssessment,
		EventDate:    time.Now(),
		Symptoms:     record.Symptoms,
		Severity:     feelingSeverity(record.Feeling, len(record.Symptoms)),
		FeelingState: record.Feeling,
		Source:       "assessment",
	}); err != nil {
		s.log.Warn("failed to record twin event", zap.String("reportId", record.ID), zap.Error(err))
	}

	return record, nil
}

func (s *Service) audit(reportID, userID string, event models.ReportLogEvent, detail string) {
	entry := models.ReportLog{
		ReportID: reportID,
		UserID:   userID,
		Event:    event,
		Detail:   detail,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Warn("failed to write report log", zap.String("reportId", reportID), zap.Error(err))
	}
}

// feelingSeverity maps a reported feeling plus symptom load onto the twin's
// 0-10 severity scale.
func feelingSeverity(feeling string, symptomCount int) int {
	base := 4
	switch strings.ToLower(strings.TrimSpace(feeling)) {
	case "good", "fine", "okay", "ok":
		base = 2
	case "unwell", "sick", "bad":
		base = 5
	case "terrible", "awful", "very sick":
		base = 7
	}
	severity := base + symptomCount/2
	if severity > 10 {
		severity = 10
	}
	return severity
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
