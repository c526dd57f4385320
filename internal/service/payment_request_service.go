package service

import (
	"soko/internal/domain"
	"soko/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRequestStore interface {
	Create(tx *gorm.DB, p *models.PaymentRequest) error
	GetByRequestIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.PaymentRequest, error)
	Resolve(tx *gorm.DB, id uint, status string, txID *uint) error
}

type InquiryGetter interface {
	GetByID(id uint) (*models.Inquiry, error)
}

type UserGetter interface {
	GetByID(id uint) (*models.User, error)
}

// Transferrer is the slice of the wallet service the workflows use. The
// transfer joins the caller's transaction, so a failed transfer rolls the
// whole resolution back.
type Transferrer interface {
	TransferTx(tx *gorm.DB, fromUserID, toUserID uint, amount decimal.Decimal) (*models.Transaction, error)
}

// PaymentRequestService drives the PENDING -> ACCEPTED/DECLINED state
// machine. Both transitions are terminal and each request is resolved exactly
// once: the row is locked before the PENDING check.
type PaymentRequestService struct {
	db        TxRunner
	requests  PaymentRequestStore
	inquiries InquiryGetter
	users     UserGetter
	wallets   Transferrer
}

func NewPaymentRequestService(db TxRunner, requests PaymentRequestStore, inquiries InquiryGetter, users UserGetter, wallets Transferrer) *PaymentRequestService {
	return &PaymentRequestService{db: db, requests: requests, inquiries: inquiries, users: users, wallets: wallets}
}

// Create opens a payment request on an inquiry. The creator must be the
// business owning the inquiry's service; the recipient is the inquiry's
// customer (recipientID may be zero to derive it, or must match).
func (s *PaymentRequestService) Create(inquiryID, creatorID, recipientID uint, amount decimal.Decimal, description string) (*models.PaymentRequest, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	creator, err := s.users.GetByID(creatorID)
	if err != nil {
		return nil, err
	}
	if !creator.IsBusiness() {
		return nil, domain.ErrNotBusiness
	}
	inq, err := s.inquiries.GetByID(inquiryID)
	if err != nil {
		return nil, err
	}
	if !inq.IsOpen() {
		return nil, domain.ErrInquiryClosed
	}
	if inq.Service.BusinessID != creatorID {
		return nil, domain.ErrNotServiceOwner
	}
	if recipientID == 0 {
		recipientID = inq.CustomerID
	} else if recipientID != inq.CustomerID {
		return nil, domain.ErrWrongRecipient
	}
	p := &models.PaymentRequest{
		RequestID:   uuid.New(),
		InquiryID:   inquiryID,
		CreatorID:   creatorID,
		RecipientID: recipientID,
		Amount:      amount,
		Description: description,
		Status:      domain.PaymentRequestPending,
	}
	if err := s.requests.Create(nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Accept transfers the amount from the recipient to the creator and marks
// the request ACCEPTED, linking the transaction. Runs as one atomic unit: if
// the transfer fails (for example ErrInsufficientFunds) the request stays
// PENDING and no balances move.
func (s *PaymentRequestService) Accept(requestID uuid.UUID, actorID uint) (*models.PaymentRequest, *models.Transaction, error) {
	var (
		p *models.PaymentRequest
		t *models.Transaction
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.requests.GetByRequestIDForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if !p.IsPending() {
			return domain.ErrNotPending
		}
		if p.RecipientID != actorID {
			return domain.ErrNotRecipient
		}
		t, err = s.wallets.TransferTx(tx, p.RecipientID, p.CreatorID, p.Amount)
		if err != nil {
			return err
		}
		if err := s.requests.Resolve(tx, p.ID, domain.PaymentRequestAccepted, &t.ID); err != nil {
			return err
		}
		p.Status = domain.PaymentRequestAccepted
		p.TransactionID = &t.ID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return p, t, nil
}

// Decline marks the request DECLINED. No money moves.
func (s *PaymentRequestService) Decline(requestID uuid.UUID, actorID uint) (*models.PaymentRequest, error) {
	var p *models.PaymentRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.requests.GetByRequestIDForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if !p.IsPending() {
			return domain.ErrNotPending
		}
		if p.RecipientID != actorID {
			return domain.ErrNotRecipient
		}
		if err := s.requests.Resolve(tx, p.ID, domain.PaymentRequestDeclined, nil); err != nil {
			return err
		}
		p.Status = domain.PaymentRequestDeclined
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
