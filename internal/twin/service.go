package twin

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/queue"
)

// Service manages digital twins: the per-user learning profile aggregated
// from health events, its timeline, learned patterns and proactive alerts.
type Service struct {
	db        *gorm.DB
	publisher *queue.Publisher
	log       *zap.Logger
}

// NewService creates a twin service.
func NewService(db *gorm.DB, publisher *queue.Publisher, log *zap.Logger) *Service {
	return &Service{db: db, publisher: publisher, log: log}
}

// GetOrCreate returns the user's twin, creating it on first access.
func (s *Service) GetOrCreate(userID string) (*models.DigitalTwin, error) {
	var twin models.DigitalTwin
	err := s.db.Where("user_id = ?", userID).First(&twin).Error
	if err == nil {
		return &twin, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	twin = models.DigitalTwin{UserID: userID}
	if err := s.db.Create(&twin).Error; err != nil {
		return nil, err
	}
	s.log.Info("created digital twin", zap.String("userId", userID), zap.String("twinId", twin.ID))
	return &twin, nil
}

// RecordEvent appends a health event to the twin's timeline and updates the
// twin's learning counters.
func (s *Service) RecordEvent(userID string, event models.HealthEvent) (*models.HealthEvent, error) {
	twin, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	event.TwinID = twin.ID
	if event.EventDate.IsZero() {
		event.EventDate = time.Now()
	}
	if event.Source == "" {
		event.Source = "user_input"
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"data_points_count": gorm.Expr("data_points_count + 1"),
		"interaction_count": gorm.Expr("interaction_count + 1"),
		"last_learning_at":  &now,
	}
	if err := s.db.Model(twin).Updates(updates).Error; err != nil {
		s.log.Warn("failed to update twin counters", zap.String("twinId", twin.ID), zap.Error(err))
	}
	s.maybePromote(twin)

	return &event, nil
}

// maybePromote bumps the learning level as data accumulates.
func (s *Service) maybePromote(twin *models.DigitalTwin) {
	var count int64
	s.db.Model(&models.HealthEvent{}).Where("twin_id = ?", twin.ID).Count(&count)

	level := "beginner"
	switch {
	case count >= 50:
		level = "expert"
	case count >= 20:
		level = "advanced"
	case count >= 5:
		level = "intermediate"
	}
	if level != twin.LearningLevel {
		s.db.Model(twin).Update("learning_level", level)
	}
}

// Timeline returns the twin's health events, newest first.
func (s *Service) Timeline(userID string, limit, offset int) ([]models.HealthEvent, error) {
	twin, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var events []models.HealthEvent
	err = s.db.Where("twin_id = ?", twin.ID).
		Order("event_date DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	return events, err
}

// RefreshPatterns re-runs pattern discovery over the twin's events, replaces
// the stored patterns, and raises a proactive alert when a worsening trend
// appears.
func (s *Service) RefreshPatterns(ctx context.Context, userID string) ([]models.LearnedPattern, error) {
	twin, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var events []models.HealthEvent
	if err := s.db.Where("twin_id = ?", twin.ID).Find(&events).Error; err != nil {
		return nil, err
	}

	discovered := DiscoverPatterns(events)

	// Replace previous discovery results wholesale; patterns are derived data.
	if err := s.db.Where("twin_id = ?", twin.ID).Delete(&models.LearnedPattern{}).Error; err != nil {
		return nil, err
	}
	for i := range discovered {
		discovered[i].TwinID = twin.ID
		if err := s.db.Create(&discovered[i]).Error; err != nil {
			return nil, err
		}
		if discovered[i].PatternType == models.PatternTrend && discovered[i].EffectDirection == "negative" {
			s.raiseTrendAlert(ctx, twin, discovered[i])
		}
	}

	confidence := 0.0
	if len(discovered) > 0 {
		for _, p := range discovered {
			confidence += p.ConfidenceScore
		}
		confidence /= float64(len(discovered))
	}
	s.db.Model(twin).Update("confidence_level", confidence)

	return discovered, nil
}

func (s *Service) raiseTrendAlert(ctx context.Context, twin *models.DigitalTwin, pattern models.LearnedPattern) {
	// One unread worsening alert at a time is enough.
	var existing int64
	s.db.Model(&models.ProactiveAlert{}).
		Where("twin_id = ? AND alert_type = ? AND is_read = ?", twin.ID, "worsening_trend", false).
		Count(&existing)
	if existing > 0 {
		return
	}

	alert := models.ProactiveAlert{
		TwinID:    twin.ID,
		AlertType: "worsening_trend",
		Title:     "Your symptoms appear to be trending worse",
		Message:   "Recent assessments show a worsening severity trend. Consider scheduling a check-up with your healthcare provider.",
		Severity:  "warning",
	}
	if err := s.db.Create(&alert).Error; err != nil {
		s.log.Warn("failed to create proactive alert", zap.String("twinId", twin.ID), zap.Error(err))
		return
	}

	_ = s.publisher.Publish(ctx, queue.QueueTwinAlert, queue.TwinAlertEvent{
		AlertID:   alert.ID,
		TwinID:    twin.ID,
		AlertType: alert.AlertType,
		Severity:  alert.Severity,
		Timestamp: time.Now().UTC(),
	})
}

// Trajectory projects the twin's severity trend over the given horizon.
func (s *Service) Trajectory(userID string, horizonDays int) (*Trajectory, error) {
	twin, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if horizonDays <= 0 || horizonDays > 90 {
		horizonDays = 30
	}

	var events []models.HealthEvent
	if err := s.db.Where("twin_id = ?", twin.ID).Find(&events).Error; err != nil {
		return nil, err
	}

	traj := ProjectTrajectory(events, horizonDays)
	return &traj, nil
}

// Alerts returns the twin's proactive alerts, newest first.
func (s *Service) Alerts(userID string) ([]models.ProactiveAlert, error) {
	twin, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	var alerts []models.ProactiveAlert
	err = s.db.Where("twin_id = ?", twin.ID).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

// MarkAlertRead flags an alert as read. The alert must belong to the user's twin.
func (s *Service) MarkAlertRead(userID, alertID string) error {
	twin, err := s.GetOrCreate(userID)
	if err != nil {
		return err
	}
	result := s.db.Model(&models.ProactiveAlert{}).
		Where("id = ? AND twin_id = ?", alertID, twin.ID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
