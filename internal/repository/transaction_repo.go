package repository

import (
	"soko/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository is append-only: the log supports Create and lookups,
// nothing else. Update and delete are deliberately absent from the contract.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(tx *gorm.DB, t *models.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(t).Error
}

// ListByWallet returns transactions where the wallet is source or destination,
// newest first.
func (r *TransactionRepository) ListByWallet(walletID uint, limit, offset int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *TransactionRepository) GetByTransactionID(id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.Where("transaction_id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
