package handler

import (
	"net/http"
	"strconv"

	"soko/internal/middleware"
	"soko/internal/models"
	"soko/internal/repository"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogRepo *repository.CatalogRepository
}

func NewCatalogHandler(catalogRepo *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalogRepo: catalogRepo}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id" binding:"required"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.catalogRepo.CreateCategory(cat); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.catalogRepo.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

// CreateService registers a listing for the authenticated business.
func (h *CatalogHandler) CreateService(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.catalogRepo.GetCategoryByID(req.CategoryID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	svc := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		BusinessID:  userID,
		CategoryID:  req.CategoryID,
	}
	if err := h.catalogRepo.CreateService(svc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": svc})
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.catalogRepo.ListServices(uint(categoryID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": list})
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	svc, err := h.catalogRepo.GetServiceByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}

// ListMyServices returns the authenticated business's own listings.
func (h *CatalogHandler) ListMyServices(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.catalogRepo.ListServicesByBusiness(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": list})
}
