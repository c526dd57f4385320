package handler

import (
	"net/http"
	"strconv"

	"soko/internal/domain"
	"soko/internal/middleware"
	"soko/internal/models"
	"soko/internal/repository"
	"soko/internal/service"

	"github.com/gin-gonic/gin"
)

type InquiryHandler struct {
	inquiryRepo   *repository.InquiryRepository
	catalogRepo   *repository.CatalogRepository
	moderation    *service.ModerationService
	notifications *service.NotificationService
}

func NewInquiryHandler(inquiryRepo *repository.InquiryRepository, catalogRepo *repository.CatalogRepository, moderation *service.ModerationService, notifications *service.NotificationService) *InquiryHandler {
	return &InquiryHandler{inquiryRepo: inquiryRepo, catalogRepo: catalogRepo, moderation: moderation, notifications: notifications}
}

type CreateInquiryRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Subject   string `json:"subject" binding:"required,max=100"`
	Message   string `json:"message"`
}

type InquiryMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create opens an inquiry on a service for the authenticated customer.
func (h *InquiryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.catalogRepo.GetServiceByID(req.ServiceID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	inq := &models.Inquiry{
		ServiceID:  req.ServiceID,
		CustomerID: userID,
		Subject:    req.Subject,
		Status:     domain.InquiryOpen,
	}
	if err := h.inquiryRepo.Create(inq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if req.Message != "" {
		_ = h.inquiryRepo.CreateMessage(&models.InquiryMessage{
			InquiryID: inq.ID,
			SenderID:  userID,
			Content:   req.Message,
		})
	}
	c.JSON(http.StatusCreated, gin.H{"inquiry": inq})
}

// List returns the inquiries visible to the caller's role: own inquiries for
// customers, inquiries on owned services for businesses, assigned inquiries
// for moderators.
func (h *InquiryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var (
		list []models.Inquiry
		err  error
	)
	switch middleware.GetRole(c) {
	case domain.RoleBusiness:
		list, err = h.inquiryRepo.ListByBusiness(userID, limit, offset)
	case domain.RoleModerator:
		list, err = h.inquiryRepo.ListByModerator(userID, limit, offset)
	default:
		list, err = h.inquiryRepo.ListByCustomer(userID, limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": list})
}

func (h *InquiryHandler) Get(c *gin.Context) {
	inq, ok := h.loadForParticipant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry": inq})
}

func (h *InquiryHandler) PostMessage(c *gin.Context) {
	inq, ok := h.loadForParticipant(c)
	if !ok {
		return
	}
	if !inq.IsOpen() {
		respondError(c, domain.ErrInquiryClosed)
		return
	}
	var req InquiryMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := &models.InquiryMessage{
		InquiryID: inq.ID,
		SenderID:  middleware.GetUserID(c),
		Content:   req.Content,
	}
	if err := h.inquiryRepo.CreateMessage(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": m})
}

func (h *InquiryHandler) ListMessages(c *gin.Context) {
	inq, ok := h.loadForParticipant(c)
	if !ok {
		return
	}
	list, err := h.inquiryRepo.ListMessages(inq.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

// Close marks the inquiry CLOSED. Only the assigned moderator can close.
func (h *InquiryHandler) Close(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	inq, err := h.inquiryRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if inq.ModeratorID == nil || *inq.ModeratorID != userID {
		respondError(c, domain.ErrNotModerator)
		return
	}
	if !inq.IsOpen() {
		respondError(c, domain.ErrInquiryClosed)
		return
	}
	if err := h.inquiryRepo.Close(inq.ID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "close failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.InquiryClosed})
}

// RequestModerator asks for a moderator on the inquiry. The least-loaded
// moderator is assigned; with none registered the request stays pending.
func (h *InquiryHandler) RequestModerator(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	mod, err := h.moderation.RequestModerator(uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if mod == nil {
		c.JSON(http.StatusAccepted, gin.H{"status": "pending", "moderator": nil})
		return
	}
	if inq, err := h.inquiryRepo.GetByID(uint(id)); err == nil {
		_ = h.notifications.NotifyModeratorAssigned(mod.ID, inq.ID, inq.Subject)
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned", "moderator_id": mod.ID})
}

// loadForParticipant fetches the path inquiry and enforces that the caller is
// the customer, the service's business, or the assigned moderator. Writes the
// error response itself when it returns ok=false.
func (h *InquiryHandler) loadForParticipant(c *gin.Context) (*models.Inquiry, bool) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	inq, err := h.inquiryRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	isModerator := inq.ModeratorID != nil && *inq.ModeratorID == userID
	if userID != inq.CustomerID && userID != inq.Service.BusinessID && !isModerator {
		respondError(c, domain.ErrNotParticipant)
		return nil, false
	}
	return inq, true
}
