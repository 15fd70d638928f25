package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/internal/repository"
	"github.com/sahaya-relief/camp-api/pkg/database"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

// Ledger operation names used in logs and metrics.
const (
	OpPledge             = "pledge"
	OpConfirmReceived    = "confirm_received"
	OpConfirmNotReceived = "confirm_not_received"
	OpManualInventorySet = "manual_inventory_set"
)

type ledgerStore interface {
	Pledge(ctx context.Context, p repository.PledgeParams) (*models.PledgeResult, error)
	ConfirmReceived(ctx context.Context, donationID string, at time.Time) (*models.ConfirmationResult, *models.DonationRecord, error)
	ConfirmNotReceived(ctx context.Context, donationID string, at time.Time) (*models.ConfirmationResult, *models.DonationRecord, error)
	SetInventory(ctx context.Context, campID, itemName string, quantity int, at time.Time) (*models.ManualInventoryResult, error)
}

type donationFinder interface {
	FindByID(ctx context.Context, id string) (*models.DonationRecord, error)
}

type cacheDeleter interface {
	Delete(ctx context.Context, keys ...string) error
}

type ledgerMetrics interface {
	RecordTransition(operation, outcome string, duration time.Duration)
	RecordRetry(operation string)
}

// ReconciliationConfig bounds retries of transient transaction failures.
type ReconciliationConfig struct {
	MaxAttempts  int
	RetryBackoff time.Duration
}

// ReconciliationService drives donations through pledge and confirmation,
// keeping requests, donations and inventory consistent.
type ReconciliationService struct {
	ledger    ledgerStore
	donations donationFinder
	cache     cacheDeleter
	metrics   ledgerMetrics
	validator *validator.Validate
	logger    *zap.Logger
	config    ReconciliationConfig
	now       func() time.Time
}

// NewReconciliationService constructs the service. cache and metrics may be nil.
func NewReconciliationService(ledger ledgerStore, donations donationFinder, cache cacheDeleter, metrics ledgerMetrics, validate *validator.Validate, logger *zap.Logger, cfg ReconciliationConfig) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &ReconciliationService{
		ledger:    ledger,
		donations: donations,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// Pledge records a donor's pledge and decrements the request immediately.
func (s *ReconciliationService) Pledge(ctx context.Context, req dto.DonateItemRequest) (*models.PledgeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "requestId and a positive donateQty are required")
	}
	donor := strings.TrimSpace(req.DonorName)
	if donor == "" {
		donor = models.DefaultDonorName
	}

	var result *models.PledgeResult
	err := s.run(ctx, OpPledge, func(ctx context.Context) error {
		var err error
		result, err = s.ledger.Pledge(ctx, repository.PledgeParams{
			RequestID: req.RequestID,
			Quantity:  req.DonateQty,
			DonorName: donor,
			At:        s.now().UTC(),
		})
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrInvalidRequestState, "request not found")
		case errors.Is(err, repository.ErrRequestUnavailable):
			return nil, appErrors.Clone(appErrors.ErrInvalidRequestState, "invalid or fulfilled request, or quantity exceeds remaining")
		}
		return nil, s.mapInfraError(err, "failed to record donation")
	}

	s.invalidate(ctx, result.Donation.CampID)
	s.logger.Info("donation pledged",
		zap.String("donation_id", result.Donation.ID),
		zap.String("request_id", req.RequestID),
		zap.String("camp_id", result.Donation.CampID),
		zap.Int("quantity", req.DonateQty),
		zap.Int("remaining", result.Remaining),
	)
	return result, nil
}

// ConfirmReceived records that a pledged donation physically arrived.
func (s *ReconciliationService) ConfirmReceived(ctx context.Context, donationID string, actor *models.JWTClaims) (*models.ConfirmationResult, error) {
	if err := s.authorize(ctx, donationID, actor); err != nil {
		return nil, err
	}

	var (
		result   *models.ConfirmationResult
		donation *models.DonationRecord
	)
	err := s.run(ctx, OpConfirmReceived, func(ctx context.Context) error {
		var err error
		result, donation, err = s.ledger.ConfirmReceived(ctx, donationID, s.now().UTC())
		return err
	})
	if err != nil {
		var stateErr *repository.DonationStateError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donation not found")
		case errors.As(err, &stateErr):
			return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, "donation already marked "+string(stateErr.Status))
		}
		return nil, s.mapInfraError(err, "failed to confirm donation")
	}

	s.invalidate(ctx, donation.CampID)
	s.logger.Info("donation received",
		zap.String("donation_id", donationID),
		zap.String("camp_id", donation.CampID),
		zap.String("item", donation.ItemName),
		zap.Int("quantity", donation.Quantity),
		zap.Int("inventory", result.NewInventory),
	)
	return result, nil
}

// ConfirmNotReceived records that a pledged donation never arrived and
// returns its quantity to the request.
func (s *ReconciliationService) ConfirmNotReceived(ctx context.Context, donationID string, actor *models.JWTClaims) (*models.ConfirmationResult, error) {
	if err := s.authorize(ctx, donationID, actor); err != nil {
		return nil, err
	}

	var (
		result   *models.ConfirmationResult
		donation *models.DonationRecord
	)
	err := s.run(ctx, OpConfirmNotReceived, func(ctx context.Context) error {
		var err error
		result, donation, err = s.ledger.ConfirmNotReceived(ctx, donationID, s.now().UTC())
		return err
	})
	if err != nil {
		var stateErr *repository.DonationStateError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donation not found")
		case errors.As(err, &stateErr):
			if stateErr.Status == models.DonationStatusReceived || stateErr.Status == models.DonationStatusNotReceived {
				return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, "donation already marked "+string(stateErr.Status))
			}
			return nil, appErrors.ErrInvalidStateForRejection
		}
		return nil, s.mapInfraError(err, "failed to reject donation")
	}

	s.invalidate(ctx, donation.CampID)
	s.logger.Info("donation not received",
		zap.String("donation_id", donationID),
		zap.String("camp_id", donation.CampID),
		zap.String("item", donation.ItemName),
		zap.Int("quantity", donation.Quantity),
		zap.Int("remaining", result.RemainingNeeded),
	)
	return result, nil
}

// ManualInventorySet overwrites a camp's stock of an item. This is a
// reconciliation reset, separate from the donation flow.
func (s *ReconciliationService) ManualInventorySet(ctx context.Context, req dto.InventoryUpdateRequest, actor *models.JWTClaims) (*models.ManualInventoryResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "campId, itemName and a non-negative quantity are required")
	}
	if !actor.CanAccessCamp(req.CampID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage this camp")
	}

	var result *models.ManualInventoryResult
	err := s.run(ctx, OpManualInventorySet, func(ctx context.Context) error {
		var err error
		result, err = s.ledger.SetInventory(ctx, req.CampID, strings.TrimSpace(req.ItemName), *req.Quantity, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, s.mapInfraError(err, "inventory update failed")
	}

	s.invalidate(ctx, req.CampID)
	fields := []zap.Field{
		zap.String("camp_id", req.CampID),
		zap.String("item", req.ItemName),
		zap.Int("quantity", *req.Quantity),
	}
	if result.Request != nil {
		fields = append(fields, zap.String("request_id", result.Request.ID), zap.Int("remaining", result.Request.RemainingQty))
	}
	s.logger.Info("inventory overwritten", fields...)
	return result, nil
}

// run executes fn with retries on transient database failures and records
// the outcome.
func (s *ReconciliationService) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	policy := database.RetryPolicy{
		MaxAttempts: s.config.MaxAttempts,
		Backoff:     s.config.RetryBackoff,
		OnRetry: func(attempt int, err error) {
			s.logger.Warn("retrying ledger transaction", zap.String("operation", op), zap.Int("attempt", attempt), zap.Error(err))
			if s.metrics != nil {
				s.metrics.RecordRetry(op)
			}
		},
	}
	err := database.Retry(ctx, policy, fn)
	if s.metrics != nil {
		outcome := OutcomeSuccess
		switch {
		case err == nil:
		case isLedgerRejection(err):
			outcome = OutcomeRejected
		default:
			outcome = OutcomeFailed
		}
		s.metrics.RecordTransition(op, outcome, time.Since(start))
	}
	return err
}

func (s *ReconciliationService) authorize(ctx context.Context, donationID string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	donation, err := s.donations.FindByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "donation not found")
		}
		return appErrors.Internal(err, "failed to load donation")
	}
	if !actor.CanAccessCamp(donation.CampID) {
		return appErrors.Clone(appErrors.ErrForbidden, "donation belongs to another camp")
	}
	return nil
}

func (s *ReconciliationService) invalidate(ctx context.Context, campID string) {
	if s.cache == nil || campID == "" {
		return
	}
	if err := s.cache.Delete(ctx, inventoryCacheKey(campID)); err != nil {
		s.logger.Warn("failed to invalidate inventory cache", zap.String("camp_id", campID), zap.Error(err))
	}
}

func (s *ReconciliationService) mapInfraError(err error, message string) error {
	if errors.Is(err, database.ErrRetriesExhausted) {
		s.logger.Error("ledger retries exhausted", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransientFailure.Code, appErrors.ErrTransientFailure.Status, appErrors.ErrTransientFailure.Message)
	}
	s.logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, message)
}

func isLedgerRejection(err error) bool {
	var stateErr *repository.DonationStateError
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrRequestUnavailable) || errors.As(err, &stateErr)
}
