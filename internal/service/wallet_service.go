package service

import (
	"database/sql"

	"soko/internal/domain"
	"soko/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TxRunner runs a function inside a database transaction. *gorm.DB satisfies
// it; tests substitute a runner that calls the function with a nil tx.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// WalletStore is the minimal wallet persistence interface for the service.
type WalletStore interface {
	GetByUserID(userID uint) (*models.Wallet, error)
	GetByIDForUpdate(tx *gorm.DB, id uint) (*models.Wallet, error)
	UpdateBalance(tx *gorm.DB, id uint, balance decimal.Decimal) error
}

// TransactionStore appends to the transaction log.
type TransactionStore interface {
	Create(tx *gorm.DB, t *models.Transaction) error
}

// WalletService is the sole writer of balances and the sole creator of
// transaction log entries. Every mutating operation runs in one database
// transaction that locks the wallet rows it touches in ascending wallet-ID
// order, re-reads balances under the lock, and writes exactly one
// transaction row. If anything fails, nothing is written.
type WalletService struct {
	db      TxRunner
	wallets WalletStore
	txs     TransactionStore
	log     *zap.Logger
}

func NewWalletService(db TxRunner, wallets WalletStore, txs TransactionStore, log *zap.Logger) *WalletService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WalletService{db: db, wallets: wallets, txs: txs, log: log}
}

// Deposit credits the user's wallet and returns the DEPOSIT transaction and
// the new balance.
func (s *WalletService) Deposit(userID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, decimal.Zero, domain.ErrInvalidAmount
	}
	w, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	var (
		t          *models.Transaction
		newBalance decimal.Decimal
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.wallets.GetByIDForUpdate(tx, w.ID)
		if err != nil {
			return err
		}
		newBalance = locked.Balance.Add(amount)
		if err := s.wallets.UpdateBalance(tx, locked.ID, newBalance); err != nil {
			return err
		}
		t = &models.Transaction{
			TransactionID: uuid.New(),
			ToWalletID:    &locked.ID,
			Amount:        amount,
			Type:          domain.TransactionDeposit,
		}
		return s.txs.Create(tx, t)
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	s.log.Info("wallet deposit",
		zap.Uint("wallet_id", w.ID),
		zap.String("amount", amount.String()),
		zap.String("transaction_id", t.TransactionID.String()))
	return t, newBalance, nil
}

// Withdraw debits the user's wallet. Fails with ErrInsufficientFunds when the
// balance re-read under lock is below amount; the balance is left unchanged.
func (s *WalletService) Withdraw(userID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, decimal.Zero, domain.ErrInvalidAmount
	}
	w, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	var (
		t          *models.Transaction
		newBalance decimal.Decimal
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.wallets.GetByIDForUpdate(tx, w.ID)
		if err != nil {
			return err
		}
		if locked.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		newBalance = locked.Balance.Sub(amount)
		if err := s.wallets.UpdateBalance(tx, locked.ID, newBalance); err != nil {
			return err
		}
		t = &models.Transaction{
			TransactionID: uuid.New(),
			FromWalletID:  &locked.ID,
			Amount:        amount,
			Type:          domain.TransactionWithdrawal,
		}
		return s.txs.Create(tx, t)
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	s.log.Info("wallet withdrawal",
		zap.Uint("wallet_id", w.ID),
		zap.String("amount", amount.String()),
		zap.String("transaction_id", t.TransactionID.String()))
	return t, newBalance, nil
}

// Transfer moves amount between two users' wallets and returns the single
// TRANSFER transaction plus the sender's new balance.
func (s *WalletService) Transfer(fromUserID, toUserID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	var (
		t          *models.Transaction
		newBalance decimal.Decimal
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		t, newBalance, err = s.transfer(tx, fromUserID, toUserID, amount)
		return err
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return t, newBalance, nil
}

// TransferTx is Transfer running inside the caller's transaction, for flows
// (payment-request accept, conversation accept) that must resolve their own
// state in the same atomic unit as the money movement.
func (s *WalletService) TransferTx(tx *gorm.DB, fromUserID, toUserID uint, amount decimal.Decimal) (*models.Transaction, error) {
	t, _, err := s.transfer(tx, fromUserID, toUserID, amount)
	return t, err
}

func (s *WalletService) transfer(tx *gorm.DB, fromUserID, toUserID uint, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, decimal.Zero, domain.ErrInvalidAmount
	}
	from, err := s.wallets.GetByUserID(fromUserID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	to, err := s.wallets.GetByUserID(toUserID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if from.ID == to.ID {
		return nil, decimal.Zero, domain.ErrSameWallet
	}

	// Lock both rows in ascending wallet-ID order so two opposite-direction
	// transfers cannot deadlock.
	first, second := from.ID, to.ID
	if second < first {
		first, second = second, first
	}
	lockedFirst, err := s.wallets.GetByIDForUpdate(tx, first)
	if err != nil {
		return nil, decimal.Zero, err
	}
	lockedSecond, err := s.wallets.GetByIDForUpdate(tx, second)
	if err != nil {
		return nil, decimal.Zero, err
	}
	lockedFrom, lockedTo := lockedFirst, lockedSecond
	if lockedFrom.ID != from.ID {
		lockedFrom, lockedTo = lockedSecond, lockedFirst
	}

	if lockedFrom.Balance.LessThan(amount) {
		return nil, decimal.Zero, domain.ErrInsufficientFunds
	}
	fromBalance := lockedFrom.Balance.Sub(amount)
	if err := s.wallets.UpdateBalance(tx, lockedFrom.ID, fromBalance); err != nil {
		return nil, decimal.Zero, err
	}
	if err := s.wallets.UpdateBalance(tx, lockedTo.ID, lockedTo.Balance.Add(amount)); err != nil {
		return nil, decimal.Zero, err
	}
	t := &models.Transaction{
		TransactionID: uuid.New(),
		FromWalletID:  &lockedFrom.ID,
		ToWalletID:    &lockedTo.ID,
		Amount:        amount,
		Type:          domain.TransactionTransfer,
	}
	if err := s.txs.Create(tx, t); err != nil {
		return nil, decimal.Zero, err
	}
	s.log.Info("wallet transfer",
		zap.Uint("from_wallet_id", lockedFrom.ID),
		zap.Uint("to_wallet_id", lockedTo.ID),
		zap.String("amount", amount.String()),
		zap.String("transaction_id", t.TransactionID.String()))
	return t, fromBalance, nil
}
