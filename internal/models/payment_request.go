package models

import (
	"time"

	"soko/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRequest is a business-to-customer money request tied to an inquiry.
// It is resolved exactly once: the PENDING check and the status write happen
// in the same database transaction, under a row lock on this row.
type PaymentRequest struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	RequestID     uuid.UUID       `gorm:"type:char(36);uniqueIndex;not null" json:"request_id"`
	InquiryID     uint            `gorm:"not null;index" json:"inquiry_id"`
	CreatorID     uint            `gorm:"not null;index" json:"creator_id"`
	RecipientID   uint            `gorm:"not null;index" json:"recipient_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description   string          `gorm:"type:text" json:"description"`
	Status        string          `gorm:"size:10;not null;default:'PENDING';index" json:"status"` // PENDING | ACCEPTED | DECLINED
	TransactionID *uint           `gorm:"index" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Inquiry     Inquiry      `gorm:"foreignKey:InquiryID" json:"-"`
	Creator     User         `gorm:"foreignKey:CreatorID" json:"-"`
	Recipient   User         `gorm:"foreignKey:RecipientID" json:"-"`
	Transaction *Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}

func (p *PaymentRequest) IsPending() bool { return p.Status == domain.PaymentRequestPending }
