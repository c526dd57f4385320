package database

import (
	"errors"

	"soko/config"
	"soko/internal/domain"
	"soko/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.Category{},
		&models.Service{},
		&models.Inquiry{},
		&models.InquiryMessage{},
		&models.PaymentRequest{},
		&models.Conversation{},
		&models.ConversationMessage{},
		&models.Notification{},
	)
}

// SeedModerator creates the initial moderator account (with its wallet) when
// none exists, using MODERATOR_EMAIL / MODERATOR_PASSWORD. Without at least
// one moderator, moderation requests stay pending.
func SeedModerator(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		u := &models.User{
			Email:        email,
			Username:     "moderator",
			PasswordHash: string(hash),
			Role:         domain.RoleModerator,
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Create(&models.Wallet{UserID: u.ID, Balance: decimal.Zero}).Error
	})
}
