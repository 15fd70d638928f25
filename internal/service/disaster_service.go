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
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type disasterStore interface {
	Create(ctx context.Context, d *models.Disaster) error
	FindByID(ctx context.Context, id string) (*models.Disaster, error)
	List(ctx context.Context) ([]models.Disaster, error)
	Update(ctx context.Context, d *models.Disaster) error
	Delete(ctx context.Context, id string) error
}

// DisasterService manages registered disasters.
type DisasterService struct {
	disasters disasterStore
	ids       idAllocator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDisasterService constructs the service.
func NewDisasterService(disasters disasterStore, ids idAllocator, validate *validator.Validate, logger *zap.Logger) *DisasterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DisasterService{disasters: disasters, ids: ids, validator: validate, logger: logger, now: time.Now}
}

// Register stores a new disaster under a freshly allocated id.
func (s *DisasterService) Register(ctx context.Context, req dto.DisasterRequest) (*models.Disaster, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	id, err := s.ids.NextID(ctx, repository.SequenceDisaster)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to allocate disaster id")
	}

	now := s.now().UTC()
	d := &models.Disaster{DisasterID: id, CreatedAt: now}
	applyDisaster(d, req, now)
	if d.Status == "" {
		d.Status = models.DisasterStatusActive
	}
	if err := s.disasters.Create(ctx, d); err != nil {
		return nil, appErrors.Internal(err, "failed to register disaster")
	}
	s.logger.Info("disaster registered", zap.String("disaster_id", id), zap.String("type", string(d.Type)))
	return d, nil
}

// List returns disasters, most recent first.
func (s *DisasterService) List(ctx context.Context) ([]models.Disaster, error) {
	list, err := s.disasters.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list disasters")
	}
	if list == nil {
		list = []models.Disaster{}
	}
	return list, nil
}

// Get returns a single disaster.
func (s *DisasterService) Get(ctx context.Context, id string) (*models.Disaster, error) {
	d, err := s.disasters.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "disaster not found", "failed to load disaster")
	}
	return d, nil
}

// Update replaces the mutable fields. The identifier is never changed.
func (s *DisasterService) Update(ctx context.Context, id string, req dto.DisasterRequest) (*models.Disaster, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	d, err := s.disasters.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "disaster not found", "failed to load disaster")
	}
	applyDisaster(d, req, s.now().UTC())
	if err := s.disasters.Update(ctx, d); err != nil {
		return nil, notFoundOr(err, "disaster not found", "failed to update disaster")
	}
	return d, nil
}

// Delete removes a disaster.
func (s *DisasterService) Delete(ctx context.Context, id string) error {
	if err := s.disasters.Delete(ctx, id); err != nil {
		return notFoundOr(err, "disaster not found", "failed to delete disaster")
	}
	s.logger.Info("disaster deleted", zap.String("disaster_id", id))
	return nil
}

func (s *DisasterService) validate(req dto.DisasterRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"disasterName, location, dateOccurred, a valid disasterType and severity are required")
	}
	return nil
}

func applyDisaster(d *models.Disaster, req dto.DisasterRequest, now time.Time) {
	d.Name = strings.TrimSpace(req.Name)
	d.Location = strings.TrimSpace(req.Location)
	d.Latitude = req.Latitude
	d.Longitude = req.Longitude
	d.DateOccurred = req.DateOccurred.UTC()
	d.Type = models.DisasterType(req.Type)
	d.Severity = models.Severity(req.Severity)
	d.Description = strings.TrimSpace(req.Description)
	d.AffectedPopulation = req.AffectedPopulation
	if req.Status != "" {
		d.Status = models.DisasterStatus(req.Status)
	}
	d.UpdatedAt = now
}

// notFoundOr maps sql.ErrNoRows to NOT_FOUND and anything else to an internal error.
func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, internal)
}
