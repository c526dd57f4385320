package handler

import (
	"net/http"

	"soko/internal/domain"
	"soko/internal/middleware"
	"soko/internal/repository"
	"soko/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentRequestHandler struct {
	svc           *service.PaymentRequestService
	requestRepo   *repository.PaymentRequestRepository
	notifications *service.NotificationService
}

func NewPaymentRequestHandler(svc *service.PaymentRequestService, requestRepo *repository.PaymentRequestRepository, notifications *service.NotificationService) *PaymentRequestHandler {
	return &PaymentRequestHandler{svc: svc, requestRepo: requestRepo, notifications: notifications}
}

type CreatePaymentRequestRequest struct {
	InquiryID   uint            `json:"inquiry_id" binding:"required"`
	RecipientID uint            `json:"recipient_id"` // optional, defaults to the inquiry's customer
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

func (h *PaymentRequestHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(req.InquiryID, userID, req.RecipientID, req.Amount, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.notifications.NotifyPaymentRequested(p.RecipientID, p.RequestID.String(), p.Amount.String())
	c.JSON(http.StatusCreated, gin.H{"payment_request": p})
}

// List returns payment requests created by (business) or addressed to
// (customer) the caller; moderators see everything.
func (h *PaymentRequestHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var err error
	var list interface{}
	switch middleware.GetRole(c) {
	case domain.RoleBusiness:
		list, err = h.requestRepo.ListByCreator(userID)
	case domain.RoleModerator:
		list, err = h.requestRepo.ListAll()
	default:
		list, err = h.requestRepo.ListByRecipient(userID, false)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_requests": list})
}

// ListPending returns the caller's unresolved incoming requests.
func (h *PaymentRequestHandler) ListPending(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.requestRepo.ListByRecipient(userID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_requests": list})
}

func (h *PaymentRequestHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	p, err := h.requestRepo.GetByRequestID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if userID != p.CreatorID && userID != p.RecipientID {
		respondError(c, domain.ErrNotParticipant)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_request": p})
}

// Respond resolves a pending request: accept moves the money, decline leaves
// balances untouched. Either way the request never leaves its terminal state.
func (h *PaymentRequestHandler) Respond(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Action == "accept" {
		p, t, err := h.svc.Accept(id, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = h.notifications.NotifyPaymentAccepted(p.CreatorID, p.RequestID.String(), p.Amount.String())
		c.JSON(http.StatusOK, gin.H{"payment_request": p, "transaction": t})
		return
	}
	p, err := h.svc.Decline(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.notifications.NotifyPaymentDeclined(p.CreatorID, p.RequestID.String())
	c.JSON(http.StatusOK, gin.H{"payment_request": p})
}
