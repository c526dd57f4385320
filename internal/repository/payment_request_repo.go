package repository

import (
	"soko/internal/domain"
	"soko/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRequestRepository struct {
	db *gorm.DB
}

func NewPaymentRequestRepository(db *gorm.DB) *PaymentRequestRepository {
	return &PaymentRequestRepository{db: db}
}

func (r *PaymentRequestRepository) Create(tx *gorm.DB, p *models.PaymentRequest) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(p).Error
}

func (r *PaymentRequestRepository) GetByRequestID(id uuid.UUID) (*models.PaymentRequest, error) {
	var p models.PaymentRequest
	err := r.db.Preload("Transaction").Where("request_id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByRequestIDForUpdate locks the request row so the PENDING check and the
// resolving status write are one atomic step. Must run inside a database
// transaction.
func (r *PaymentRequestRepository) GetByRequestIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.PaymentRequest, error) {
	var p models.PaymentRequest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("request_id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Resolve writes the terminal status; txID is non-nil only for accepts.
func (r *PaymentRequestRepository) Resolve(tx *gorm.DB, id uint, status string, txID *uint) error {
	updates := map[string]interface{}{"status": status}
	if txID != nil {
		updates["transaction_id"] = *txID
	}
	return tx.Model(&models.PaymentRequest{}).Where("id = ?", id).Updates(updates).Error
}

func (r *PaymentRequestRepository) ListByCreator(creatorID uint) ([]models.PaymentRequest, error) {
	var list []models.PaymentRequest
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *PaymentRequestRepository) ListByRecipient(recipientID uint, onlyPending bool) ([]models.PaymentRequest, error) {
	q := r.db.Where("recipient_id = ?", recipientID).Order("created_at DESC")
	if onlyPending {
		q = q.Where("status = ?", domain.PaymentRequestPending)
	}
	var list []models.PaymentRequest
	err := q.Find(&list).Error
	return list, err
}

func (r *PaymentRequestRepository) ListAll() ([]models.PaymentRequest, error) {
	var list []models.PaymentRequest
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}
