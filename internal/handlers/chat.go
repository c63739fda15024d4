package handlers

import (
	"errors"
	"strconv"

	"symptom-checker-server/internal/chat"
	"symptom-checker-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChatHandler handles AI chat sessions and messages.
type ChatHandler struct {
	Chat *chat.Service
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{Chat: chatService}
}

// CreateSessionRequest represents the request body for starting a chat session.
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// CreateSession starts a new chat session for the authenticated user.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	session, err := h.Chat.CreateSession(userID.(string), req.Title)
	if err != nil {
		utils.InternalServerError(c, "Failed to create chat session: "+err.Error())
		return
	}

	utils.Created(c, "Chat session created", session)
}

// ListSessions returns the authenticated user's chat sessions.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, _ := c.Get("userID")

	sessions, err := h.Chat.Sessions(userID.(string))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch chat sessions: "+err.Error())
		return
	}

	utils.Success(c, "Chat sessions fetched successfully", sessions)
}

// ListMessages returns the messages of one session, oldest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.Chat.Messages(userID.(string), sessionID, limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Chat session not found")
		} else {
			utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		}
		return
	}

	utils.Success(c, "Messages fetched successfully", messages)
}

// SendMessageRequest represents the request body for a chat turn.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage posts a user message and returns the assistant's reply. Access
// is gated by the paywall: either an unexpired unlimited subscription or a
// pay-per-chat credit, which is consumed here.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID := c.Param("id")

	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	reply, err := h.Chat.SendMessage(c.Request.Context(), userID.(string), sessionID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrPaymentRequired):
			utils.PaymentRequired(c, "An active subscription or chat credit is required")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFound(c, "Chat session not found")
		default:
			utils.InternalServerError(c, "Failed to send message: "+err.Error())
		}
		return
	}

	utils.Success(c, "Message sent", reply)
}
