package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ReportStatus tracks the lifecycle of a health report.
type ReportStatus string

const (
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// ReportSource records where a completed report came from.
type ReportSource string

const (
	ReportSourceAI       ReportSource = "ai"
	ReportSourceCache    ReportSource = "cache"
	ReportSourceFallback ReportSource = "fallback"
)

// StringList stores a slice of strings as a JSON column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("unsupported type for StringList")
}

// JSONBlob stores arbitrary JSON as a column without re-encoding it.
type JSONBlob json.RawMessage

func (j JSONBlob) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONBlob) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = JSONBlob(v)
		return nil
	case nil:
		*j = nil
		return nil
	}
	return errors.New("unsupported type for JSONBlob")
}

func (j JSONBlob) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSONBlob) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// HealthReport represents one symptom assessment submission and its result.
// Created when an assessment is submitted and updated exactly once by the
// generating code; it is never mutated afterward.
type HealthReport struct {
	BaseModel
	UserID       string       `gorm:"size:36;index" json:"userId"`
	Age          int          `gorm:"not null" json:"age"`
	Feeling      string       `gorm:"size:100;not null" json:"feeling"`
	Symptoms     StringList   `gorm:"type:json" json:"symptoms"`
	History      string       `gorm:"type:text" json:"history,omitempty"`
	Medications  string       `gorm:"type:text" json:"medications,omitempty"`
	Allergies    string       `gorm:"type:text" json:"allergies,omitempty"`
	Status       ReportStatus `gorm:"size:20;default:'processing';index" json:"status"`
	Report       JSONBlob     `gorm:"type:json" json:"report,omitempty"`
	OTCMedicines JSONBlob     `gorm:"type:json" json:"otcMedicines,omitempty"`
	Source       ReportSource `gorm:"size:20" json:"source,omitempty"`
	ModelUsed    string       `gorm:"size:100" json:"modelUsed,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ReportLogEvent enumerates report lifecycle audit events.
type ReportLogEvent string

const (
	ReportLogRequestStarted   ReportLogEvent = "request_started"
	ReportLogRequestCompleted ReportLogEvent = "request_completed"
	ReportLogRequestFailed    ReportLogEvent = "request_failed"
	ReportLogValidationFailed ReportLogEvent = "validation_failed"
)

// ReportLog is an append-only audit trail of report lifecycle events.
type ReportLog struct {
	BaseModel
	ReportID string         `gorm:"size:36;index" json:"reportId"`
	UserID   string         `gorm:"size:36;index" json:"userId"`
	Event    ReportLogEvent `gorm:"size:40;not null" json:"event"`
	Detail   string         `gorm:"type:text" json:"detail,omitempty"`
}

// ReportCache deduplicates model calls for near-identical inputs. Entries
// expire 24 hours after creation and are purged by a periodic cleanup loop.
type ReportCache struct {
	BaseModel
	CacheKey   string    `gorm:"uniqueIndex;size:64;not null" json:"cacheKey"`
	ReportData JSONBlob  `gorm:"type:json;not null" json:"reportData"`
	HitCount   int       `gorm:"default:0" json:"hitCount"`
	ExpiresAt  time.Time `gorm:"index" json:"expiresAt"`
}
