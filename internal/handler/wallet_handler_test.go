package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"soko/internal/domain"
	"soko/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubWalletOps struct {
	tx       *models.Transaction
	balance  decimal.Decimal
	err      error
	lastFrom uint
	lastTo   uint
}

func (s *stubWalletOps) Deposit(userID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	return s.tx, s.balance, s.err
}

func (s *stubWalletOps) Withdraw(userID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	return s.tx, s.balance, s.err
}

func (s *stubWalletOps) Transfer(fromUserID, toUserID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	s.lastFrom, s.lastTo = fromUserID, toUserID
	return s.tx, s.balance, s.err
}

type stubWalletReader struct{ wallet *models.Wallet }

func (s *stubWalletReader) GetByUserID(userID uint) (*models.Wallet, error) {
	if s.wallet == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.wallet, nil
}

type stubTxLister struct{ list []models.Transaction }

func (s *stubTxLister) ListByWallet(walletID uint, limit, offset int) ([]models.Transaction, error) {
	return s.list, nil
}

type stubUserByEmail struct{ users map[string]*models.User }

func (s *stubUserByEmail) GetByEmail(email string) (*models.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func walletTestRouter(h *WalletHandler, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
	r.GET("/wallet", authed, h.GetBalance)
	r.POST("/wallet/deposit", authed, h.Deposit)
	r.POST("/wallet/withdraw", authed, h.Withdraw)
	r.POST("/wallet/transfer", authed, h.Transfer)
	r.GET("/wallet/transactions", authed, h.ListTransactions)
	return r
}

func sampleTx(amount string) *models.Transaction {
	from, to := uint(1), uint(2)
	return &models.Transaction{
		ID:            1,
		TransactionID: uuid.New(),
		FromWalletID:  &from,
		ToWalletID:    &to,
		Amount:        decimal.RequireFromString(amount),
		Type:          domain.TransactionTransfer,
	}
}

func TestWalletDeposit(t *testing.T) {
	ops := &stubWalletOps{tx: sampleTx("25.50"), balance: decimal.RequireFromString("35.50")}
	h := NewWalletHandler(ops, &stubWalletReader{}, &stubTxLister{}, &stubUserByEmail{})
	r := walletTestRouter(h, 7)

	req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", strings.NewReader(`{"amount":"25.50"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	// Amounts travel as strings.
	require.Contains(t, w.Body.String(), `"new_balance":"35.5"`)
	require.Contains(t, w.Body.String(), `"amount":"25.5"`)
}

func TestWalletDeposit_BadAmount(t *testing.T) {
	h := NewWalletHandler(&stubWalletOps{}, &stubWalletReader{}, &stubTxLister{}, &stubUserByEmail{})
	r := walletTestRouter(h, 7)

	req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", strings.NewReader(`{"amount":"not-money"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletWithdraw_InsufficientFunds(t *testing.T) {
	ops := &stubWalletOps{err: domain.ErrInsufficientFunds}
	h := NewWalletHandler(ops, &stubWalletReader{}, &stubTxLister{}, &stubUserByEmail{})
	r := walletTestRouter(h, 7)

	req := httptest.NewRequest(http.MethodPost, "/wallet/withdraw", strings.NewReader(`{"amount":"100.00"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWalletTransfer_ByEmail(t *testing.T) {
	ops := &stubWalletOps{tx: sampleTx("10.00"), balance: decimal.RequireFromString("90.00")}
	users := &stubUserByEmail{users: map[string]*models.User{
		"wanjiku@example.com": {ID: 42, Email: "wanjiku@example.com"},
	}}
	h := NewWalletHandler(ops, &stubWalletReader{}, &stubTxLister{}, users)
	r := walletTestRouter(h, 7)

	req := httptest.NewRequest(http.MethodPost, "/wallet/transfer",
		strings.NewReader(`{"recipient_email":"wanjiku@example.com","amount":"10.00"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, uint(7), ops.lastFrom)
	require.Equal(t, uint(42), ops.lastTo)
}

func TestWalletTransfer_UnknownRecipient(t *testing.T) {
	h := NewWalletHandler(&stubWalletOps{}, &stubWalletReader{}, &stubTxLister{}, &stubUserByEmail{})
	r := walletTestRouter(h, 7)

	req := httptest.NewRequest(http.MethodPost, "/wallet/transfer",
		strings.NewReader(`{"recipient_email":"nobody@example.com","amount":"10.00"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWalletBalanceAndTransactions(t *testing.T) {
	wallet := &models.Wallet{ID: 3, UserID: 7, Balance: decimal.RequireFromString("12.34")}
	h := NewWalletHandler(&stubWalletOps{}, &stubWalletReader{wallet: wallet},
		&stubTxLister{list: []models.Transaction{*sampleTx("1.00")}}, &stubUserByEmail{})
	r := walletTestRouter(h, 7)

	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"balance":"12.34"`)
	require.Contains(t, w.Body.String(), `"wallet_id":3`)

	req = httptest.NewRequest(http.MethodGet, "/wallet/transactions", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"type":"TRANSFER"`)
}
