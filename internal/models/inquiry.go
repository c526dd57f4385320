package models

import (
	"time"

	"soko/internal/domain"

	"gorm.io/gorm"
)

// Inquiry is a thread between a customer and the business owning a service.
// HasModeratorRequest is a persisted claim flag: it is set under a row lock
// before a moderator is picked, so two concurrent requests for the same
// inquiry cannot both reach the assignment step.
type Inquiry struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	ServiceID           uint           `gorm:"not null;index" json:"service_id"`
	CustomerID          uint           `gorm:"not null;index" json:"customer_id"`
	ModeratorID         *uint          `gorm:"index" json:"moderator_id"`
	Subject             string         `gorm:"size:100;not null" json:"subject"`
	Status              string         `gorm:"size:10;not null;default:'OPEN';index" json:"status"` // OPEN | CLOSED
	HasModeratorRequest bool           `gorm:"not null;default:false" json:"has_moderator_request"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Service   Service `gorm:"foreignKey:ServiceID" json:"-"`
	Customer  User    `gorm:"foreignKey:CustomerID" json:"-"`
	Moderator *User   `gorm:"foreignKey:ModeratorID" json:"-"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

func (i *Inquiry) IsOpen() bool { return i.Status == domain.InquiryOpen }

type InquiryMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	InquiryID uint           `gorm:"not null;index" json:"inquiry_id"`
	SenderID  uint           `gorm:"not null;index" json:"sender_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Inquiry Inquiry `gorm:"foreignKey:InquiryID" json:"-"`
	Sender  User    `gorm:"foreignKey:SenderID" json:"-"`
}

func (InquiryMessage) TableName() string {
	return "inquiry_messages"
}
