package models

import (
	"time"
)

// ChatRole identifies who authored a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatSession groups a user's conversation with the health assistant.
type ChatSession struct {
	BaseModel
	UserID       string `gorm:"size:36;index" json:"userId"`
	Title        string `gorm:"size:255;default:'Health Consultation'" json:"title"`
	MessageCount int    `gorm:"default:0" json:"messageCount"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`

	User     User          `gorm:"foreignKey:UserID" json:"-"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"-"`
}

// ChatMessage is a single conversation turn. Recent messages are replayed as
// a sliding-window context for each model call.
type ChatMessage struct {
	BaseModel
	SessionID string   `gorm:"size:36;index" json:"sessionId"`
	UserID    string   `gorm:"size:36;index" json:"userId"`
	Role      ChatRole `gorm:"size:20;not null" json:"role"`
	Content   string   `gorm:"type:text;not null" json:"content"`
}

// SubscriptionType distinguishes the two chat access modes.
type SubscriptionType string

const (
	SubscriptionPayPerChat SubscriptionType = "pay_per_chat"
	SubscriptionUnlimited  SubscriptionType = "unlimited"
)

// ChatSubscription gates chat access. One active row per user drives access:
// pay_per_chat decrements ChatsRemaining per turn, unlimited is checked
// against ExpiresAt.
type ChatSubscription struct {
	BaseModel
	UserID           string           `gorm:"size:36;index" json:"userId"`
	SubscriptionType SubscriptionType `gorm:"size:20;not null" json:"subscriptionType"`
	ChatsRemaining   int              `gorm:"default:0" json:"chatsRemaining"`
	ExpiresAt        *time.Time       `json:"expiresAt,omitempty"`
	IsActive         bool             `gorm:"default:true;index" json:"isActive"`
	PaymentReference string           `gorm:"size:100" json:"paymentReference,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
