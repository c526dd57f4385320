package repository

import (
	"soko/internal/domain"
	"soko/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(i *models.Inquiry) error {
	return r.db.Create(i).Error
}

func (r *InquiryRepository) GetByID(id uint) (*models.Inquiry, error) {
	var i models.Inquiry
	if err := r.db.Preload("Service").First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByIDForUpdate locks the inquiry row so the claim-flag check and write
// cannot race. Must run inside a database transaction.
func (r *InquiryRepository) GetByIDForUpdate(tx *gorm.DB, id uint) (*models.Inquiry, error) {
	var i models.Inquiry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&i, id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InquiryRepository) ListByCustomer(customerID uint, limit, offset int) ([]models.Inquiry, error) {
	var list []models.Inquiry
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *InquiryRepository) ListByBusiness(businessID uint, limit, offset int) ([]models.Inquiry, error) {
	var list []models.Inquiry
	err := r.db.Joins("JOIN services ON services.id = inquiries.service_id").
		Where("services.business_id = ?", businessID).
		Order("inquiries.created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *InquiryRepository) ListByModerator(moderatorID uint, limit, offset int) ([]models.Inquiry, error) {
	var list []models.Inquiry
	err := r.db.Where("moderator_id = ?", moderatorID).Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// CountOpenByModerator counts OPEN inquiries currently assigned to the
// moderator; the assignment algorithm minimizes this.
func (r *InquiryRepository) CountOpenByModerator(tx *gorm.DB, moderatorID uint) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	err := tx.Model(&models.Inquiry{}).
		Where("moderator_id = ? AND status = ?", moderatorID, domain.InquiryOpen).Count(&n).Error
	return n, err
}

func (r *InquiryRepository) SetModeratorRequest(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Inquiry{}).Where("id = ?", id).
		Update("has_moderator_request", true).Error
}

func (r *InquiryRepository) AssignModerator(tx *gorm.DB, id, moderatorID uint) error {
	return tx.Model(&models.Inquiry{}).Where("id = ?", id).
		Update("moderator_id", moderatorID).Error
}

func (r *InquiryRepository) Close(id, moderatorID uint) error {
	return r.db.Model(&models.Inquiry{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": domain.InquiryClosed, "moderator_id": moderatorID}).Error
}

func (r *InquiryRepository) CreateMessage(m *models.InquiryMessage) error {
	return r.db.Create(m).Error
}

func (r *InquiryRepository) ListMessages(inquiryID uint) ([]models.InquiryMessage, error) {
	var list []models.InquiryMessage
	err := r.db.Where("inquiry_id = ?", inquiryID).Order("created_at ASC").Find(&list).Error
	return list, err
}
