package repository

import (
	"soko/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(tx *gorm.DB, c *models.Conversation) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(c).Error
}

func (r *ConversationRepository) GetByConversationID(id uuid.UUID) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.Where("conversation_id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByConversationIDForUpdate locks the row for accept/deny resolution.
// Must run inside a database transaction.
func (r *ConversationRepository) GetByConversationIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Conversation, error) {
	var c models.Conversation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("conversation_id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsBetween reports whether a conversation already links the two users,
// in either direction.
func (r *ConversationRepository) ExistsBetween(tx *gorm.DB, userA, userB uint) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	err := tx.Model(&models.Conversation{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Count(&n).Error
	return n > 0, err
}

func (r *ConversationRepository) ListByParticipant(userID uint) ([]models.Conversation, error) {
	var list []models.Conversation
	err := r.db.Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("updated_at DESC").Find(&list).Error
	return list, err
}

func (r *ConversationRepository) MarkAccepted(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Conversation{}).Where("id = ?", id).Update("is_accepted", true).Error
}

// Delete removes the conversation and all its messages. Hard delete: a denied
// conversation leaves no trace, which is what lets the pair try again later.
func (r *ConversationRepository) Delete(tx *gorm.DB, id uint) error {
	if err := tx.Unscoped().Where("conversation_id = ?", id).Delete(&models.ConversationMessage{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&models.Conversation{}, id).Error
}

func (r *ConversationRepository) CreateMessage(tx *gorm.DB, m *models.ConversationMessage) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(m).Error
}

func (r *ConversationRepository) ListMessages(conversationID uint) ([]models.ConversationMessage, error) {
	var list []models.ConversationMessage
	err := r.db.Where("conversation_id = ?", conversationID).Order("created_at ASC").Find(&list).Error
	return list, err
}

// MarkMessagesRead flags every unread message in the conversation that was
// not sent by viewerID. Listing messages calls this, so "read" is
// at-least-once, not exactly-once.
func (r *ConversationRepository) MarkMessagesRead(conversationID, viewerID uint) error {
	return r.db.Model(&models.ConversationMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, viewerID, false).
		Update("is_read", true).Error
}

// UnreadCount counts messages addressed to userID that are still unread
// across all accepted conversations.
func (r *ConversationRepository) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.ConversationMessage{}).
		Joins("JOIN conversations ON conversations.id = conversation_messages.conversation_id").
		Where("(conversations.sender_id = ? OR conversations.recipient_id = ?)", userID, userID).
		Where("conversation_messages.sender_id <> ? AND conversation_messages.is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
