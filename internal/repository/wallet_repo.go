package repository

import (
	"soko/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(w *models.Wallet) error {
	return r.db.Create(w).Error
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetByID(id uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByIDForUpdate re-reads the wallet row under SELECT ... FOR UPDATE.
// Must be called inside a database transaction; the lock is held until that
// transaction commits or rolls back.
func (r *WalletRepository) GetByIDForUpdate(tx *gorm.DB, id uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateBalance writes the new balance for a wallet the caller has locked.
func (r *WalletRepository) UpdateBalance(tx *gorm.DB, id uint, balance decimal.Decimal) error {
	return tx.Model(&models.Wallet{}).Where("id = ?", id).Update("balance", balance).Error
}
