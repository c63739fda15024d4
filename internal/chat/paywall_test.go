package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"symptom-checker-server/internal/models"
)

func TestDecideNoSubscription(t *testing.T) {
	d := Decide(nil, time.Now())
	assert.False(t, d.Granted)
	assert.False(t, d.Consume)
}

func TestDecideInactiveSubscription(t *testing.T) {
	sub := &models.ChatSubscription{
		SubscriptionType: models.SubscriptionUnlimited,
		IsActive:         false,
	}
	d := Decide(sub, time.Now())
	assert.False(t, d.Granted)
}

func TestDecideUnlimitedActive(t *testing.T) {
	expiry := time.Now().Add(24 * time.Hour)
	sub := &models.ChatSubscription{
		SubscriptionType: models.SubscriptionUnlimited,
		IsActive:         true,
		ExpiresAt:        &expiry,
	}
	d := Decide(sub, time.Now())
	assert.True(t, d.Granted)
	// Unlimited access never spends credits.
	assert.False(t, d.Consume)
}

func TestDecideUnlimitedNoExpiry(t *testing.T) {
	sub := &models.ChatSubscription{
		SubscriptionType: models.SubscriptionUnlimited,
		IsActive:         true,
	}
	d := Decide(sub, time.Now())
	assert.True(t, d.Granted)
}

func TestDecideUnlimitedExpired(t *testing.T) {
	expiry := time.Now().Add(-time.Minute)
	sub := &models.ChatSubscription{
		SubscriptionType: models.SubscriptionUnlimited,
		IsActive:         true,
		ExpiresAt:        &expiry,
	}
	d := Decide(sub, time.Now())
	assert.False(t, d.Granted)
}

func TestDecidePayPerChatWithCredits(t *testing.T) {
	sub := &models.ChatSubscription{
		SubscriptionType: models.SubscriptionPayPerChat,
		IsActive:         true,
		ChatsRemaining:   3,
	}
	d := Decide(sub, time.Now())
	assert.True(t, d.Granted)
	assert.True(t, d.Consume)
	// Decide only marks the credit; it never mutates the row.
	assert.Equal(t, 3, sub.ChatsRemaining)
}

func TestDecidePayPerChatExhausted(t *testing.T) {
	sub := &models.ChatSubscription{
		SubscriptionType: models.SubscriptionPayPerChat,
		IsActive:         true,
		ChatsRemaining:   0,
	}
	d := Decide(sub, time.Now())
	assert.False(t, d.Granted)
}
