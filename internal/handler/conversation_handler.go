package handler

import (
	"net/http"

	"soko/internal/middleware"
	"soko/internal/models"
	"soko/internal/repository"
	"soko/internal/service"
	"soko/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	svc           *service.ConversationService
	convRepo      *repository.ConversationRepository
	userRepo      *repository.UserRepository
	notifications *service.NotificationService
	hub           *ws.Hub
}

func NewConversationHandler(svc *service.ConversationService, convRepo *repository.ConversationRepository, userRepo *repository.UserRepository, notifications *service.NotificationService, hub *ws.Hub) *ConversationHandler {
	return &ConversationHandler{svc: svc, convRepo: convRepo, userRepo: userRepo, notifications: notifications, hub: hub}
}

type CreateConversationRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

type ConversationMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create starts a pending conversation with an initial message. The recipient
// must accept before any further messages flow; accepting charges the sender
// the conversation fee.
func (h *ConversationHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.userRepo.GetByID(req.RecipientID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}
	conv, err := h.svc.Create(userID, req.RecipientID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	senderName := ""
	if sender, err := h.userRepo.GetByID(userID); err == nil {
		senderName = sender.Username
	}
	_ = h.notifications.NotifyConversationRequested(conv.RecipientID, conv.ConversationID.String(), senderName)
	c.JSON(http.StatusCreated, gin.H{"conversation": conv, "fee": h.svc.Fee()})
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.convRepo.ListByParticipant(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

func (h *ConversationHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}
	conv, err := h.svc.Get(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// Respond accepts or denies a pending conversation. Accept charges the sender
// the fee in the same transaction that unlocks messaging; deny deletes the
// conversation and its messages without moving money.
func (h *ConversationHandler) Respond(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Action == "accept" {
		conv, t, err := h.svc.Accept(id, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = h.notifications.NotifyConversationAccepted(conv.SenderID, conv.ConversationID.String())
		c.JSON(http.StatusOK, gin.H{"conversation": conv, "transaction": t})
		return
	}
	denied, err := h.svc.Deny(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.notifications.NotifyConversationDenied(denied.SenderID, denied.ConversationID.String())
	c.JSON(http.StatusOK, gin.H{
		"status":       "denied",
		"sender_id":    denied.SenderID,
		"recipient_id": denied.RecipientID,
	})
}

func (h *ConversationHandler) PostMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}
	var req ConversationMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, conv, err := h.svc.CreateMessage(id, userID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pushMessage(conv, m)
	c.JSON(http.StatusCreated, gin.H{"message": m})
}

func (h *ConversationHandler) ListMessages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}
	list, err := h.svc.ListMessages(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	n, err := h.svc.UnreadCount(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// pushMessage fans a new message out to the other participant's live
// connections.
func (h *ConversationHandler) pushMessage(conv *models.Conversation, m *models.ConversationMessage) {
	if h.hub == nil {
		return
	}
	h.hub.SendToUser(conv.OtherParticipant(m.SenderID), map[string]interface{}{
		"type":            "conversation_message",
		"conversation_id": conv.ConversationID.String(),
		"message_id":      m.MessageID.String(),
		"sender_id":       m.SenderID,
		"content":         m.Content,
		"created_at":      m.CreatedAt,
	})
}
