package handler

import (
	"net/http"
	"strconv"

	"soko/internal/middleware"
	"soko/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletOps is the slice of the wallet service the HTTP layer needs.
type WalletOps interface {
	Deposit(userID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error)
	Withdraw(userID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error)
	Transfer(fromUserID, toUserID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error)
}

type WalletReader interface {
	GetByUserID(userID uint) (*models.Wallet, error)
}

type TransactionLister interface {
	ListByWallet(walletID uint, limit, offset int) ([]models.Transaction, error)
}

type UserByEmail interface {
	GetByEmail(email string) (*models.User, error)
}

type WalletHandler struct {
	svc     WalletOps
	wallets WalletReader
	txs     TransactionLister
	users   UserByEmail
}

func NewWalletHandler(svc WalletOps, wallets WalletReader, txs TransactionLister, users UserByEmail) *WalletHandler {
	return &WalletHandler{svc: svc, wallets: wallets, txs: txs, users: users}
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type TransferRequest struct {
	RecipientEmail string          `json:"recipient_email" binding:"required,email"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
}

// GetBalance returns the current user's wallet.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.wallets.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_id": w.ID,
		"balance":   w.Balance,
	})
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, balance, err := h.svc.Deposit(userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transaction": t,
		"new_balance": balance,
	})
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, balance, err := h.svc.Withdraw(userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transaction": t,
		"new_balance": balance,
	})
}

// Transfer sends money to another user looked up by email. An unknown email
// is a 404, not a 400: the recipient is a resource, not a field format.
func (h *WalletHandler) Transfer(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recipient, err := h.users.GetByEmail(req.RecipientEmail)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}
	t, balance, err := h.svc.Transfer(userID, recipient.ID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transaction": t,
		"new_balance": balance,
	})
}

// ListTransactions returns the current user's wallet history, newest first.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.wallets.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.txs.ListByWallet(w.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
