package service

import (
	"encoding/json"

	"soko/internal/models"
	"soko/internal/repository"
	"soko/internal/ws"
)

// NotificationService persists per-user notifications and pushes them to any
// live WebSocket connections the user has open.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.SendToUser(userID, map[string]interface{}{
			"type":  notifType,
			"title": title,
			"body":  body,
			"data":  data,
		})
	}
	return nil
}

func (s *NotificationService) NotifyPaymentRequested(recipientID uint, requestID, amount string) error {
	return s.Notify(recipientID, "PAYMENT_REQUESTED", "Payment requested",
		"A business requested a payment of "+amount, map[string]interface{}{"request_id": requestID, "amount": amount})
}

func (s *NotificationService) NotifyPaymentAccepted(creatorID uint, requestID, amount string) error {
	return s.Notify(creatorID, "PAYMENT_ACCEPTED", "Payment request accepted",
		"Your payment request of "+amount+" was accepted", map[string]interface{}{"request_id": requestID, "amount": amount})
}

func (s *NotificationService) NotifyPaymentDeclined(creatorID uint, requestID string) error {
	return s.Notify(creatorID, "PAYMENT_DECLINED", "Payment request declined",
		"Your payment request was declined", map[string]interface{}{"request_id": requestID})
}

func (s *NotificationService) NotifyConversationRequested(recipientID uint, conversationID, senderName string) error {
	return s.Notify(recipientID, "CONVERSATION_REQUESTED", "New conversation request",
		senderName+" wants to start a conversation", map[string]interface{}{"conversation_id": conversationID})
}

func (s *NotificationService) NotifyConversationAccepted(senderID uint, conversationID string) error {
	return s.Notify(senderID, "CONVERSATION_ACCEPTED", "Conversation accepted",
		"Your conversation request was accepted", map[string]interface{}{"conversation_id": conversationID})
}

func (s *NotificationService) NotifyConversationDenied(senderID uint, conversationID string) error {
	return s.Notify(senderID, "CONVERSATION_DENIED", "Conversation denied",
		"Your conversation request was denied", map[string]interface{}{"conversation_id": conversationID})
}

func (s *NotificationService) NotifyModeratorAssigned(moderatorID, inquiryID uint, subject string) error {
	return s.Notify(moderatorID, "MODERATOR_ASSIGNED", "Inquiry assigned",
		"You were assigned to moderate: "+subject, map[string]interface{}{"inquiry_id": inquiryID})
}
