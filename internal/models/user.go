package models

import (
	"time"

	"soko/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:10;not null;index" json:"role"` // CUSTOMER | BUSINESS | MODERATOR
	Bio          string         `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Wallet *Wallet `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsBusiness() bool  { return u.Role == domain.RoleBusiness }
func (u *User) IsModerator() bool { return u.Role == domain.RoleModerator }
func (u *User) IsCustomer() bool  { return u.Role == domain.RoleCustomer }
