package queue

import "time"

// Queue names. Durable queues, declared idempotently before each publish.
const (
	QueueReportCompleted = "report.completed"
	QueueReportFailed    = "report.failed"
	QueueTwinAlert       = "twin.alert"
)

// ReportEvent notifies downstream consumers about a report lifecycle change.
type ReportEvent struct {
	ReportID  string    `json:"report_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TwinAlertEvent notifies consumers that a proactive alert was raised.
type TwinAlertEvent struct {
	AlertID   string    `json:"alert_id"`
	TwinID    string    `json:"twin_id"`
	AlertType string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}
