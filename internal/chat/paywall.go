package chat

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

// ErrPaymentRequired means no active subscription grants chat access.
var ErrPaymentRequired = errors.New("payment required: no active subscription with remaining access")

// AccessDecision is the outcome of a paywall check.
type AccessDecision struct {
	Granted bool
	// Consume is true when the grant must decrement a pay-per-chat credit.
	Consume bool
	// Subscription is the row the decision was based on, nil when absent.
	Subscription *models.ChatSubscription
}

// Decide applies the paywall rules to the latest active subscription:
// unlimited grants access while not expired without touching credits;
// pay_per_chat grants access while credits remain and marks one for
// consumption. Everything else is denied. Decide never mutates sub.
func Decide(sub *models.ChatSubscription, now time.Time) AccessDecision {
	if sub == nil || !sub.IsActive {
		return AccessDecision{Subscription: sub}
	}

	switch sub.SubscriptionType {
	case models.SubscriptionUnlimited:
		if sub.ExpiresAt == nil || sub.ExpiresAt.After(now) {
			return AccessDecision{Granted: true, Subscription: sub}
		}
	case models.SubscriptionPayPerChat:
		if sub.ChatsRemaining > 0 {
			return AccessDecision{Granted: true, Consume: true, Subscription: sub}
		}
	}
	return AccessDecision{Subscription: sub}
}

// checkAndConsume loads the user's latest active subscription, applies the
// paywall rules and, for pay-per-chat access, decrements one credit with a
// conditional update so two concurrent turns cannot both spend the last one.
func (s *Service) checkAndConsume(userID string, now time.Time) error {
	var sub models.ChatSubscription
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrPaymentRequired
		}
		return err
	}

	decision := Decide(&sub, now)
	if !decision.Granted {
		return ErrPaymentRequired
	}
	if !decision.Consume {
		return nil
	}

	result := s.db.Model(&models.ChatSubscription{}).
		Where("id = ? AND chats_remaining > 0", sub.ID).
		UpdateColumn("chats_remaining", gorm.Expr("chats_remaining - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race for the last credit.
		return ErrPaymentRequired
	}
	return nil
}
