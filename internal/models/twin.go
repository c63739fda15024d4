package models

import (
	"time"
)

// DigitalTwin aggregates a user's historical health data into a learning
// profile that backs the prediction and pattern views.
type DigitalTwin struct {
	BaseModel
	UserID          string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	TwinName        string     `gorm:"size:100;default:'Health Twin'" json:"twinName"`
	LearningLevel   string     `gorm:"size:50;default:'beginner'" json:"learningLevel"`
	DataPointsCount int        `gorm:"default:0" json:"dataPointsCount"`
	InteractionCnt  int        `gorm:"column:interaction_count;default:0" json:"interactionCount"`
	ConfidenceLevel float64    `gorm:"default:0" json:"confidenceLevel"`
	LastLearningAt  *time.Time `json:"lastLearningAt,omitempty"`

	User     User             `gorm:"foreignKey:UserID" json:"-"`
	Events   []HealthEvent    `gorm:"foreignKey:TwinID" json:"-"`
	Patterns []LearnedPattern `gorm:"foreignKey:TwinID" json:"-"`
	Alerts   []ProactiveAlert `gorm:"foreignKey:TwinID" json:"-"`
}

// HealthEventType categorizes twin timeline entries.
type HealthEventType string

const (
	EventTypeAssessment HealthEventType = "assessment"
	EventTypeSymptom    HealthEventType = "symptom"
	EventTypeChat       HealthEventType = "chat"
)

// HealthEvent is one entry on the twin's health timeline.
type HealthEvent struct {
	BaseModel
	TwinID       string          `gorm:"size:36;index" json:"twinId"`
	EventType    HealthEventType `gorm:"size:50;not null" json:"eventType"`
	EventDate    time.Time       `gorm:"index;not null" json:"eventDate"`
	Symptoms     StringList      `gorm:"type:json" json:"symptoms,omitempty"`
	Severity     int             `gorm:"default:0" json:"severity"` // 0-10 scale
	FeelingState string          `gorm:"size:50" json:"feelingState,omitempty"`
	Source       string          `gorm:"size:50;default:'user_input'" json:"source"`
}

// PatternType classifies a learned pattern.
type PatternType string

const (
	PatternRecurrence PatternType = "recurrence"
	PatternTemporal   PatternType = "temporal"
	PatternTrend      PatternType = "trend"
)

// LearnedPattern is a relationship discovered in the user's event history,
// e.g. "headache recurs" or "symptoms cluster in the evening".
type LearnedPattern struct {
	BaseModel
	TwinID          string      `gorm:"size:36;index" json:"twinId"`
	PatternType     PatternType `gorm:"size:50;not null" json:"patternType"`
	Cause           string      `gorm:"size:200;not null" json:"cause"`
	Effect          string      `gorm:"size:200;not null" json:"effect"`
	ConfidenceScore float64     `gorm:"not null" json:"confidenceScore"` // 0-100
	EvidenceCount   int         `gorm:"default:1" json:"evidenceCount"`
	EffectDirection string      `gorm:"size:20" json:"effectDirection,omitempty"`
	IsActive        bool        `gorm:"default:true" json:"isActive"`
}

// ProactiveAlert notifies the user about a concerning predicted development.
type ProactiveAlert struct {
	BaseModel
	TwinID    string `gorm:"size:36;index" json:"twinId"`
	AlertType string `gorm:"size:50;not null" json:"alertType"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Message   string `gorm:"type:text" json:"message"`
	Severity  string `gorm:"size:20;default:'info'" json:"severity"`
	IsRead    bool   `gorm:"default:false" json:"isRead"`
}
