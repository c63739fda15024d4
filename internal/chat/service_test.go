package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/models"
)

// stubClient returns a fixed reply without calling any model API.
type stubClient struct {
	reply string
}

func (s stubClient) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, nil
}

func (s stubClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.reply, nil
}

func (s stubClient) Chat(ctx context.Context, systemPrompt string, history []llm.Message) (string, error) {
	return s.reply, nil
}

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.ChatSubscription{},
	))
	return NewService(db, stubClient{reply: "Drink water and rest."}, zap.NewNop())
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Email: "pat@example.com", FirstName: "Pat", LastName: "Doe"}
	require.NoError(t, user.SetPassword("supersecret"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func grantUnlimited(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, db.Create(&models.ChatSubscription{
		UserID:           userID,
		SubscriptionType: models.SubscriptionUnlimited,
		IsActive:         true,
		ExpiresAt:        &expiry,
	}).Error)
}

func TestSendMessageWithoutSubscription(t *testing.T) {
	s := testService(t)
	user := seedUser(t, s.db)
	session, err := s.CreateSession(user.ID, "")
	require.NoError(t, err)

	_, err = s.SendMessage(context.Background(), user.ID, session.ID, "hello")
	assert.ErrorIs(t, err, ErrPaymentRequired)

	// Nothing persisted on a denied turn.
	messages, err := s.Messages(user.ID, session.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSendMessagePersistsTurn(t *testing.T) {
	s := testService(t)
	user := seedUser(t, s.db)
	grantUnlimited(t, s.db, user.ID)
	session, err := s.CreateSession(user.ID, "")
	require.NoError(t, err)

	reply, err := s.SendMessage(context.Background(), user.ID, session.ID, "I have a headache")
	require.NoError(t, err)
	assert.Equal(t, models.ChatRoleAssistant, reply.Role)
	assert.Equal(t, "Drink water and rest.", reply.Content)

	messages, err := s.Messages(user.ID, session.ID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.ChatRoleUser, messages[0].Role)
	assert.Equal(t, models.ChatRoleAssistant, messages[1].Role)

	var updated models.ChatSession
	require.NoError(t, s.db.First(&updated, "id = ?", session.ID).Error)
	assert.Equal(t, 2, updated.MessageCount)
}

func TestSendMessageReordersSessions(t *testing.T) {
	s := testService(t)
	user := seedUser(t, s.db)
	grantUnlimited(t, s.db, user.ID)

	older, err := s.CreateSession(user.ID, "older")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	newer, err := s.CreateSession(user.ID, "newer")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	// Activity in the older session must float it back to the top, so the
	// turn has to touch updated_at, not just the message counter.
	_, err = s.SendMessage(context.Background(), user.ID, older.ID, "still here")
	require.NoError(t, err)

	sessions, err := s.Sessions(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, older.ID, sessions[0].ID)
	assert.Equal(t, newer.ID, sessions[1].ID)
}

func TestSendMessageConsumesCredit(t *testing.T) {
	s := testService(t)
	user := seedUser(t, s.db)
	require.NoError(t, s.db.Create(&models.ChatSubscription{
		UserID:           user.ID,
		SubscriptionType: models.SubscriptionPayPerChat,
		IsActive:         true,
		ChatsRemaining:   1,
	}).Error)
	session, err := s.CreateSession(user.ID, "")
	require.NoError(t, err)

	_, err = s.SendMessage(context.Background(), user.ID, session.ID, "first")
	require.NoError(t, err)

	var sub models.ChatSubscription
	require.NoError(t, s.db.First(&sub, "user_id = ?", user.ID).Error)
	assert.Equal(t, 0, sub.ChatsRemaining)

	// The last credit is spent; the next turn is denied.
	_, err = s.SendMessage(context.Background(), user.ID, session.ID, "second")
	assert.ErrorIs(t, err, ErrPaymentRequired)
}
