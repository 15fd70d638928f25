package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type donationStore interface {
	ListByCamp(ctx context.Context, campID string, status models.DonationStatus) ([]models.DonationRecord, error)
	CreateMoney(ctx context.Context, d *models.MoneyDonation) error
}

// DonationService serves donation history and records monetary gifts.
// Item pledges and their confirmation live in ReconciliationService.
type DonationService struct {
	donations donationStore
	camps     campFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDonationService constructs the service.
func NewDonationService(donations donationStore, camps campFinder, validate *validator.Validate, logger *zap.Logger) *DonationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DonationService{donations: donations, camps: camps, validator: validate, logger: logger, now: time.Now}
}

// History lists every donation to a camp, newest first.
func (s *DonationService) History(ctx context.Context, campID string, actor *models.JWTClaims) ([]models.DonationRecord, error) {
	if !actor.CanAccessCamp(campID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this camp")
	}
	list, err := s.donations.ListByCamp(ctx, campID, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list donations")
	}
	if list == nil {
		list = []models.DonationRecord{}
	}
	return list, nil
}

// DonateMoney records a monetary donation. Payment is not processed; every
// accepted donation is stored as successful.
func (s *DonationService) DonateMoney(ctx context.Context, req dto.DonateMoneyRequest) (*models.MoneyDonation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "campId is required")
	}
	if !req.Amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be greater than zero")
	}
	if _, err := s.camps.FindByID(ctx, req.CampID); err != nil {
		return nil, notFoundOr(err, "camp not found", "failed to load camp")
	}

	donation := &models.MoneyDonation{
		DonorID:       strings.TrimSpace(req.DonorID),
		CampID:        req.CampID,
		Amount:        req.Amount.Round(2),
		PaymentStatus: models.PaymentStatusSuccess,
		DonatedAt:     s.now().UTC(),
	}
	if err := s.donations.CreateMoney(ctx, donation); err != nil {
		return nil, appErrors.Internal(err, "failed to record donation")
	}
	s.logger.Info("money donated", zap.String("donation_id", donation.ID), zap.String("camp_id", donation.CampID), zap.String("amount", donation.Amount.StringFixed(2)))
	return donation, nil
}
