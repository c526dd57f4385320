package service

import (
	"soko/internal/domain"
	"soko/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModerationInquiryStore is the inquiry persistence surface assignment needs.
type ModerationInquiryStore interface {
	GetByIDForUpdate(tx *gorm.DB, id uint) (*models.Inquiry, error)
	SetModeratorRequest(tx *gorm.DB, id uint) error
	AssignModerator(tx *gorm.DB, id, moderatorID uint) error
	CountOpenByModerator(tx *gorm.DB, moderatorID uint) (int64, error)
}

type ModeratorLister interface {
	ListModerators(tx *gorm.DB) ([]models.User, error)
}

type ServiceGetter interface {
	GetServiceByID(id uint) (*models.Service, error)
}

// ModerationService assigns the least-loaded moderator to inquiries.
type ModerationService struct {
	db        TxRunner
	inquiries ModerationInquiryStore
	users     ModeratorLister
	catalog   ServiceGetter
	log       *zap.Logger
}

func NewModerationService(db TxRunner, inquiries ModerationInquiryStore, users ModeratorLister, catalog ServiceGetter, log *zap.Logger) *ModerationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModerationService{db: db, inquiries: inquiries, users: users, catalog: catalog, log: log}
}

// RequestModerator claims the inquiry for moderation and assigns the
// moderator with the fewest OPEN inquiries (ties broken by ascending user
// ID). The inquiry row is locked for the whole check-claim-assign sequence.
// Returns nil when no moderators exist; the claim flag stays set so the
// request is treated as pending.
//
// The greedy count is not strictly consistent across different inquiries
// being claimed at the same time; eventual fairness is all that is required.
func (s *ModerationService) RequestModerator(inquiryID, requesterID uint) (*models.User, error) {
	var assigned *models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inq, err := s.inquiries.GetByIDForUpdate(tx, inquiryID)
		if err != nil {
			return err
		}
		svc, err := s.catalog.GetServiceByID(inq.ServiceID)
		if err != nil {
			return err
		}
		if requesterID != inq.CustomerID && requesterID != svc.BusinessID {
			return domain.ErrNotParticipant
		}
		if inq.ModeratorID != nil {
			return domain.ErrAlreadyAssigned
		}
		if inq.HasModeratorRequest {
			return domain.ErrAlreadyRequested
		}
		if err := s.inquiries.SetModeratorRequest(tx, inq.ID); err != nil {
			return err
		}
		mods, err := s.users.ListModerators(tx)
		if err != nil {
			return err
		}
		if len(mods) == 0 {
			// Claim committed, assignment pending until a moderator exists.
			return nil
		}
		var (
			best      *models.User
			bestCount int64
		)
		for i := range mods {
			n, err := s.inquiries.CountOpenByModerator(tx, mods[i].ID)
			if err != nil {
				return err
			}
			if best == nil || n < bestCount {
				best = &mods[i]
				bestCount = n
			}
		}
		if err := s.inquiries.AssignModerator(tx, inq.ID, best.ID); err != nil {
			return err
		}
		assigned = best
		return nil
	})
	if err != nil {
		return nil, err
	}
	if assigned != nil {
		s.log.Info("moderator assigned",
			zap.Uint("inquiry_id", inquiryID),
			zap.Uint("moderator_id", assigned.ID))
	} else {
		s.log.Warn("moderator requested but none available", zap.Uint("inquiry_id", inquiryID))
	}
	return assigned, nil
}
