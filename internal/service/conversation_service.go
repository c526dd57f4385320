package service

import (
	"soko/internal/domain"
	"soko/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ConversationStore interface {
	Create(tx *gorm.DB, c *models.Conversation) error
	GetByConversationID(id uuid.UUID) (*models.Conversation, error)
	GetByConversationIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Conversation, error)
	ExistsBetween(tx *gorm.DB, userA, userB uint) (bool, error)
	MarkAccepted(tx *gorm.DB, id uint) error
	Delete(tx *gorm.DB, id uint) error
	CreateMessage(tx *gorm.DB, m *models.ConversationMessage) error
	ListMessages(conversationID uint) ([]models.ConversationMessage, error)
	MarkMessagesRead(conversationID, viewerID uint) error
	UnreadCount(userID uint) (int64, error)
}

// DeniedConversation is what remains of a denied conversation: enough to
// notify both sides after the rows are gone.
type DeniedConversation struct {
	ConversationID uuid.UUID
	SenderID       uint
	RecipientID    uint
}

// ConversationService runs the paid permission-to-message handshake. A
// conversation is pending until the recipient accepts (charging the sender
// the fixed fee) or denies (deleting the conversation and its messages).
type ConversationService struct {
	db            TxRunner
	conversations ConversationStore
	wallets       Transferrer
	fee           decimal.Decimal
}

func NewConversationService(db TxRunner, conversations ConversationStore, wallets Transferrer, fee decimal.Decimal) *ConversationService {
	return &ConversationService{db: db, conversations: conversations, wallets: wallets, fee: fee}
}

// Fee returns the configured acceptance fee.
func (s *ConversationService) Fee() decimal.Decimal { return s.fee }

// Create starts a conversation with its initial message in one atomic unit.
func (s *ConversationService) Create(senderID, recipientID uint, initialMessage string) (*models.Conversation, error) {
	if senderID == recipientID {
		return nil, domain.ErrSelfConversation
	}
	var conv *models.Conversation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.conversations.ExistsBetween(tx, senderID, recipientID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateConversation
		}
		conv = &models.Conversation{
			ConversationID: uuid.New(),
			SenderID:       senderID,
			RecipientID:    recipientID,
		}
		if err := s.conversations.Create(tx, conv); err != nil {
			return err
		}
		return s.conversations.CreateMessage(tx, &models.ConversationMessage{
			MessageID:      uuid.New(),
			ConversationID: conv.ID,
			SenderID:       senderID,
			Content:        initialMessage,
		})
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Accept charges the fixed fee from the sender to the recipient and unlocks
// messaging. If the sender cannot pay, the conversation stays pending.
func (s *ConversationService) Accept(conversationID uuid.UUID, actorID uint) (*models.Conversation, *models.Transaction, error) {
	var (
		conv *models.Conversation
		t    *models.Transaction
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		conv, err = s.conversations.GetByConversationIDForUpdate(tx, conversationID)
		if err != nil {
			return err
		}
		if conv.RecipientID != actorID {
			return domain.ErrNotRecipient
		}
		if conv.IsAccepted {
			return domain.ErrAlreadyAccepted
		}
		t, err = s.wallets.TransferTx(tx, conv.SenderID, conv.RecipientID, s.fee)
		if err != nil {
			return err
		}
		if err := s.conversations.MarkAccepted(tx, conv.ID); err != nil {
			return err
		}
		conv.IsAccepted = true
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return conv, t, nil
}

// Deny deletes the conversation and all its messages. No money moves. The
// returned summary carries the participant IDs for notification.
func (s *ConversationService) Deny(conversationID uuid.UUID, actorID uint) (*DeniedConversation, error) {
	var denied *DeniedConversation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		conv, err := s.conversations.GetByConversationIDForUpdate(tx, conversationID)
		if err != nil {
			return err
		}
		if conv.RecipientID != actorID {
			return domain.ErrNotRecipient
		}
		if conv.IsAccepted {
			return domain.ErrAlreadyAccepted
		}
		if err := s.conversations.Delete(tx, conv.ID); err != nil {
			return err
		}
		denied = &DeniedConversation{
			ConversationID: conv.ConversationID,
			SenderID:       conv.SenderID,
			RecipientID:    conv.RecipientID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return denied, nil
}

// CreateMessage appends a message; only participants of an accepted
// conversation may write.
func (s *ConversationService) CreateMessage(conversationID uuid.UUID, senderID uint, content string) (*models.ConversationMessage, *models.Conversation, error) {
	conv, err := s.conversations.GetByConversationID(conversationID)
	if err != nil {
		return nil, nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, nil, domain.ErrNotParticipant
	}
	if !conv.IsAccepted {
		return nil, nil, domain.ErrConversationNotAccepted
	}
	m := &models.ConversationMessage{
		MessageID:      uuid.New(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.conversations.CreateMessage(nil, m); err != nil {
		return nil, nil, err
	}
	return m, conv, nil
}

// ListMessages returns the thread oldest-first for a participant and marks
// the other side's unread messages as read.
func (s *ConversationService) ListMessages(conversationID uuid.UUID, viewerID uint) ([]models.ConversationMessage, error) {
	conv, err := s.conversations.GetByConversationID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(viewerID) {
		return nil, domain.ErrNotParticipant
	}
	list, err := s.conversations.ListMessages(conv.ID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.MarkMessagesRead(conv.ID, viewerID); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns the conversation for a participant.
func (s *ConversationService) Get(conversationID uuid.UUID, viewerID uint) (*models.Conversation, error) {
	conv, err := s.conversations.GetByConversationID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(viewerID) {
		return nil, domain.ErrNotParticipant
	}
	return conv, nil
}

func (s *ConversationService) UnreadCount(userID uint) (int64, error) {
	return s.conversations.UnreadCount(userID)
}
