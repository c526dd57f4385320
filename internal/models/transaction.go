package models

import (
	"time"

	"soko/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the append-only record of a completed balance movement.
// Rows are written exactly once by the wallet service and never updated or
// deleted; the repository exposes no mutation beyond Create.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	TransactionID uuid.UUID       `gorm:"type:char(36);uniqueIndex;not null" json:"transaction_id"`
	FromWalletID  *uint           `gorm:"index" json:"from_wallet_id"`
	ToWalletID    *uint           `gorm:"index" json:"to_wallet_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Type          string          `gorm:"size:10;not null;index" json:"type"` // DEPOSIT, WITHDRAWAL, TRANSFER
	CreatedAt     time.Time       `json:"created_at"`

	FromWallet *Wallet `gorm:"foreignKey:FromWalletID" json:"-"`
	ToWallet   *Wallet `gorm:"foreignKey:ToWalletID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Validate enforces the shape invariant per type: deposits have no source,
// withdrawals have no destination, transfers have both.
func (t *Transaction) Validate() bool {
	switch t.Type {
	case domain.TransactionDeposit:
		return t.FromWalletID == nil && t.ToWalletID != nil
	case domain.TransactionWithdrawal:
		return t.FromWalletID != nil && t.ToWalletID == nil
	case domain.TransactionTransfer:
		return t.FromWalletID != nil && t.ToWalletID != nil
	}
	return false
}
