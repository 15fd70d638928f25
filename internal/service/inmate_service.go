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

type inmateStore interface {
	Create(ctx context.Context, inmate *models.Inmate) error
	FindByID(ctx context.Context, id string) (*models.Inmate, error)
	ListByCamp(ctx context.Context, campID string, status models.InmateStatus) ([]models.Inmate, error)
	Update(ctx context.Context, inmate *models.Inmate) error
	Delete(ctx context.Context, id string) error
}

// InmateService keeps the register of people sheltered at each camp.
type InmateService struct {
	inmates   inmateStore
	camps     campFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewInmateService constructs the service.
func NewInmateService(inmates inmateStore, camps campFinder, validate *validator.Validate, logger *zap.Logger) *InmateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InmateService{inmates: inmates, camps: camps, validator: validate, logger: logger, now: time.Now}
}

// Register adds an active resident to a camp.
func (s *InmateService) Register(ctx context.Context, req dto.RegisterInmateRequest, actor *models.JWTClaims) (*models.Inmate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "campId, name, age and gender are required")
	}
	if !actor.CanAccessCamp(req.CampID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to register residents for this camp")
	}
	if _, err := s.camps.FindByID(ctx, req.CampID); err != nil {
		return nil, notFoundOr(err, "camp not found", "failed to load camp")
	}

	inmate := &models.Inmate{
		CampID:            req.CampID,
		Name:              strings.TrimSpace(req.Name),
		Age:               *req.Age,
		Gender:            models.Gender(req.Gender),
		ContactNumber:     strings.TrimSpace(req.ContactNumber),
		AadharNumber:      req.AadharNumber,
		Address:           strings.TrimSpace(req.Address),
		FamilyMembers:     req.FamilyMembers,
		MedicalConditions: strings.TrimSpace(req.MedicalConditions),
		Status:            models.InmateStatusActive,
		RegisteredAt:      s.now().UTC(),
	}
	if err := s.inmates.Create(ctx, inmate); err != nil {
		return nil, appErrors.Internal(err, "failed to register inmate")
	}
	s.logger.Info("inmate registered", zap.String("inmate_id", inmate.ID), zap.String("camp_id", inmate.CampID))
	return inmate, nil
}

// ListByCamp returns every resident ever registered at a camp.
func (s *InmateService) ListByCamp(ctx context.Context, campID string, actor *models.JWTClaims) ([]models.Inmate, error) {
	if !actor.CanAccessCamp(campID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this camp")
	}
	list, err := s.inmates.ListByCamp(ctx, campID, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list inmates")
	}
	if list == nil {
		list = []models.Inmate{}
	}
	return list, nil
}

// Stats aggregates the active residents of a camp.
func (s *InmateService) Stats(ctx context.Context, campID string, actor *models.JWTClaims) (*models.InmateStats, error) {
	if !actor.CanAccessCamp(campID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this camp")
	}
	active, err := s.inmates.ListByCamp(ctx, campID, models.InmateStatusActive)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load inmates")
	}
	return BuildInmateStats(campID, active), nil
}

// Update changes the provided fields of a resident.
func (s *InmateService) Update(ctx context.Context, id string, req dto.UpdateInmateRequest, actor *models.JWTClaims) (*models.Inmate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inmate update")
	}
	inmate, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		inmate.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		inmate.Age = *req.Age
	}
	if req.Gender != nil {
		inmate.Gender = models.Gender(*req.Gender)
	}
	if req.ContactNumber != nil {
		inmate.ContactNumber = strings.TrimSpace(*req.ContactNumber)
	}
	if req.Address != nil {
		inmate.Address = strings.TrimSpace(*req.Address)
	}
	if req.FamilyMembers != nil {
		inmate.FamilyMembers = *req.FamilyMembers
	}
	if req.MedicalConditions != nil {
		inmate.MedicalConditions = strings.TrimSpace(*req.MedicalConditions)
	}
	if req.Status != nil {
		inmate.Status = models.InmateStatus(*req.Status)
	}

	if err := s.inmates.Update(ctx, inmate); err != nil {
		return nil, notFoundOr(err, "inmate not found", "failed to update inmate")
	}
	return inmate, nil
}

// Delete removes a resident record.
func (s *InmateService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.load(ctx, id, actor); err != nil {
		return err
	}
	if err := s.inmates.Delete(ctx, id); err != nil {
		return notFoundOr(err, "inmate not found", "failed to delete inmate")
	}
	s.logger.Info("inmate deleted", zap.String("inmate_id", id))
	return nil
}

func (s *InmateService) load(ctx context.Context, id string, actor *models.JWTClaims) (*models.Inmate, error) {
	inmate, err := s.inmates.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "inmate not found", "failed to load inmate")
	}
	if !actor.CanAccessCamp(inmate.CampID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "inmate belongs to another camp")
	}
	return inmate, nil
}

// BuildInmateStats counts residents by gender and age group.
func BuildInmateStats(campID string, inmates []models.Inmate) *models.InmateStats {
	stats := &models.InmateStats{
		CampID:   campID,
		ByGender: map[string]int{},
		ByAge:    map[string]int{},
	}
	for _, in := range inmates {
		stats.Total++
		stats.ByGender[string(in.Gender)]++
		stats.ByAge[models.AgeGroup(in.Age)]++
	}
	return stats
}
