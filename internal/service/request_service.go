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

type campFinder interface {
	FindByID(ctx context.Context, campID string) (*models.CampManager, error)
}

type campRequestStore interface {
	Create(ctx context.Context, req *models.CampRequest) error
	List(ctx context.Context, filter models.CampRequestFilter) ([]models.CampRequest, error)
}

// RequestService manages the supply requests camps publish to donors.
type RequestService struct {
	requests  campRequestStore
	camps     campFinder
	cache     cacheDeleter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRequestService constructs the service. cache may be nil.
func NewRequestService(requests campRequestStore, camps campFinder, cache cacheDeleter, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RequestService{requests: requests, camps: camps, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Create opens a request with the full quantity outstanding.
func (s *RequestService) Create(ctx context.Context, req dto.CreateSupplyRequest, actor *models.JWTClaims) (*models.CampRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "campId, itemName and a positive requiredQty are required")
	}
	if !actor.CanAccessCamp(req.CampID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to create requests for this camp")
	}
	camp, err := s.camps.FindByID(ctx, req.CampID)
	if err != nil {
		return nil, notFoundOr(err, "camp not found", "failed to load camp")
	}

	priority := models.Severity(req.Priority)
	if priority == "" {
		priority = models.SeverityMedium
	}
	now := s.now().UTC()
	record := &models.CampRequest{
		CampID:      camp.CampID,
		CampName:    camp.CampName,
		ItemName:    strings.TrimSpace(req.ItemName),
		Unit:        strings.TrimSpace(req.Unit),
		Category:    strings.TrimSpace(req.Category),
		Priority:    priority,
		RequiredQty: req.RequiredQty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.Create(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to create request")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, inventoryCacheKey(camp.CampID)); err != nil {
			s.logger.Warn("failed to invalidate inventory cache", zap.String("camp_id", camp.CampID), zap.Error(err))
		}
	}
	s.logger.Info("camp request created",
		zap.String("request_id", record.ID),
		zap.String("camp_id", record.CampID),
		zap.String("item", record.ItemName),
		zap.Int("required", record.RequiredQty),
	)
	return record, nil
}

// ListOpen returns pending requests for the donor dashboard.
func (s *RequestService) ListOpen(ctx context.Context, query dto.SupplyRequestQuery) ([]models.CampRequest, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid priority filter")
	}
	list, err := s.requests.List(ctx, models.CampRequestFilter{
		CampID:   strings.TrimSpace(query.CampID),
		Category: strings.TrimSpace(query.Category),
		Priority: models.Severity(query.Priority),
		Status:   models.RequestStatusPending,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list requests")
	}
	if list == nil {
		list = []models.CampRequest{}
	}
	return list, nil
}

// ListByCamp returns every request of a camp regardless of status.
func (s *RequestService) ListByCamp(ctx context.Context, campID string, actor *models.JWTClaims) ([]models.CampRequest, error) {
	if !actor.CanAccessCamp(campID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this camp")
	}
	list, err := s.requests.List(ctx, models.CampRequestFilter{CampID: campID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list requests")
	}
	if list == nil {
		list = []models.CampRequest{}
	}
	return list, nil
}
