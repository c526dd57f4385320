package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a paid permission-to-message handshake between two users.
// Pending until the recipient accepts (which charges the sender the
// conversation fee) or denies (which deletes the conversation and its
// messages).
type Conversation struct {
	ID             uint           `gorm:"primaryKey" json:"-"`
	ConversationID uuid.UUID      `gorm:"type:char(36);uniqueIndex;not null" json:"conversation_id"`
	SenderID       uint           `gorm:"not null;index" json:"sender_id"`
	RecipientID    uint           `gorm:"not null;index" json:"recipient_id"`
	IsAccepted     bool           `gorm:"not null;default:false" json:"is_accepted"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Sender    User `gorm:"foreignKey:SenderID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) HasParticipant(userID uint) bool {
	return c.SenderID == userID || c.RecipientID == userID
}

// OtherParticipant returns the conversation peer of userID.
func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.SenderID == userID {
		return c.RecipientID
	}
	return c.SenderID
}

type ConversationMessage struct {
	ID             uint           `gorm:"primaryKey" json:"-"`
	MessageID      uuid.UUID      `gorm:"type:char(36);uniqueIndex;not null" json:"message_id"`
	ConversationID uint           `gorm:"not null;index" json:"-"`
	SenderID       uint           `gorm:"not null;index" json:"sender_id"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	IsRead         bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	Sender       User         `gorm:"foreignKey:SenderID" json:"-"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
