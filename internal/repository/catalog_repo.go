package repository

import (
	"soko/internal/models"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateCategory(c *models.Category) error {
	return r.db.Create(c).Error
}

func (r *CatalogRepository) ListCategories() ([]models.Category, error) {
	var list []models.Category
	err := r.db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *CatalogRepository) GetCategoryByID(id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepository) CreateService(s *models.Service) error {
	return r.db.Create(s).Error
}

func (r *CatalogRepository) GetServiceByID(id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepository) ListServices(categoryID uint, limit, offset int) ([]models.Service, error) {
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var list []models.Service
	err := q.Find(&list).Error
	return list, err
}

func (r *CatalogRepository) ListServicesByBusiness(businessID uint) ([]models.Service, error) {
	var list []models.Service
	err := r.db.Where("business_id = ?", businessID).Order("created_at DESC").Find(&list).Error
	return list, err
}
