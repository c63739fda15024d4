package chat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/models"
)

// ContextWindow is how many prior messages are replayed to the model per turn.
const ContextWindow = 20

// SystemPrompt is the fixed instruction for the health assistant.
const SystemPrompt = "You are a caring AI health assistant. Answer health questions clearly and conservatively, in plain text without markdown formatting. You are not a substitute for professional medical care: recommend seeing a healthcare professional for anything serious, and never provide a definitive diagnosis or prescription."

// Service handles chat sessions and paywalled conversation turns.
type Service struct {
	db     *gorm.DB
	client llm.Client
	log    *zap.Logger
}

// NewService creates a chat service.
func NewService(db *gorm.DB, client llm.Client, log *zap.Logger) *Service {
	return &Service{db: db, client: client, log: log}
}

// CreateSession starts a new conversation for the user.
func (s *Service) CreateSession(userID, title string) (*models.ChatSession, error) {
	session := models.ChatSession{UserID: userID}
	if title != "" {
		session.Title = title
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Sessions lists the user's sessions, most recently active first.
func (s *Service) Sessions(userID string) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&sessions).Error
	return sessions, err
}

// Messages returns a session's messages in chronological order. The session
// must belong to the user.
func (s *Service) Messages(userID, sessionID string, limit int) ([]models.ChatMessage, error) {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var messages []models.ChatMessage
	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// SendMessage runs one paywalled conversation turn: check access (consuming
// a credit for pay-per-chat), persist the user message, call the model with
// a sliding window of prior messages, strip markdown artifacts from the
// reply and persist it. Returns ErrPaymentRequired before persisting
// anything when access is denied.
func (s *Service) SendMessage(ctx context.Context, userID, sessionID, content string) (*models.ChatMessage, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAndConsume(userID, time.Now()); err != nil {
		return nil, err
	}

	userMsg := models.ChatMessage{
		SessionID: session.ID,
		UserID:    userID,
		Role:      models.ChatRoleUser,
		Content:   content,
	}
	if err := s.db.Create(&userMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	history, err := s.contextWindow(session.ID)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.Chat(ctx, SystemPrompt, history)
	if err != nil {
		s.log.Error("chat model call failed", zap.String("sessionId", session.ID), zap.Error(err))
		return nil, fmt.Errorf("chat model call failed: %w", err)
	}
	reply = llm.StripMarkdown(reply)

	assistantMsg := models.ChatMessage{
		SessionID: session.ID,
		UserID:    userID,
		Role:      models.ChatRoleAssistant,
		Content:   reply,
	}
	if err := s.db.Create(&assistantMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	// Updates (unlike UpdateColumn) touches updated_at, which Sessions sorts
	// by, so active conversations float to the top.
	s.db.Model(session).Updates(map[string]interface{}{
		"message_count": gorm.Expr("message_count + 2"),
	})

	return &assistantMsg, nil
}

// contextWindow loads the last ContextWindow messages in chronological order.
func (s *Service) contextWindow(sessionID string) ([]llm.Message, error) {
	var recent []models.ChatMessage
	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(ContextWindow).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, llm.Message{
			Role:    string(recent[i].Role),
			Content: recent[i].Content,
		})
	}
	return history, nil
}

func (s *Service) ownedSession(userID, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
