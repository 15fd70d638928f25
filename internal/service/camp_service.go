package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
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
	"github.com/sahaya-relief/camp-api/pkg/mailer"
)

const campIDAttempts = 3

type campStore interface {
	Create(ctx context.Context, camp *models.CampManager) error
	FindByID(ctx context.Context, campID string) (*models.CampManager, error)
	FindByEmail(ctx context.Context, email string) (*models.CampManager, error)
	List(ctx context.Context) ([]models.CampManager, error)
	Delete(ctx context.Context, campID string) error
}

type idAllocator interface {
	NextID(ctx context.Context, prefix string) (string, error)
}

type credentialNotifier interface {
	SendCampCredentials(ctx context.Context, creds mailer.CampCredentials) error
}

// CampService registers camps and their managers.
type CampService struct {
	camps     campStore
	ids       idAllocator
	notifier  credentialNotifier
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCampService constructs the service. notifier may be nil.
func NewCampService(camps campStore, ids idAllocator, notifier credentialNotifier, validate *validator.Validate, logger *zap.Logger) *CampService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CampService{camps: camps, ids: ids, notifier: notifier, validator: validate, logger: logger, now: time.Now}
}

// Create registers a camp, allocating its id and, when none was supplied,
// its password. The plaintext password is returned once so the admin can
// pass it on if the e-mail never arrives.
func (s *CampService) Create(ctx context.Context, req dto.CreateCampRequest) (*models.CampCreated, error) {
	req = normalizeCampRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "campName, managerName and a valid email are required")
	}
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		generated, err := generatePassword()
		if err != nil {
			return nil, appErrors.Internal(err, "failed to generate password")
		}
		password = generated
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	now := s.now().UTC()
	camp := &models.CampManager{
		CampName:      req.CampName,
		ManagerName:   req.ManagerName,
		Email:         req.Email,
		PasswordHash:  hash,
		Location:      req.Location,
		ContactNumber: req.ContactNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.insert(ctx, camp); err != nil {
		return nil, err
	}

	result := &models.CampCreated{Camp: *camp, Password: password}
	if s.notifier != nil {
		err := s.notifier.SendCampCredentials(ctx, mailer.CampCredentials{
			CampName: camp.CampName,
			CampID:   camp.CampID,
			Email:    camp.Email,
			Password: password,
		})
		if err != nil {
			s.logger.Error("credentials email not queued", zap.String("code", appErrors.CodeUpstreamFailure), zap.String("camp_id", camp.CampID), zap.Error(err))
		} else {
			result.EmailSent = true
		}
	}

	s.logger.Info("camp created", zap.String("camp_id", camp.CampID), zap.String("email", camp.Email))
	return result, nil
}

// normalizeCampRequest trims the text fields and lowercases the e-mail so
// validation and the uniqueness check see the stored form.
func normalizeCampRequest(req dto.CreateCampRequest) dto.CreateCampRequest {
	req.CampName = strings.TrimSpace(req.CampName)
	req.ManagerName = strings.TrimSpace(req.ManagerName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Location = strings.TrimSpace(req.Location)
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	return req
}

// Get returns a camp profile. Managers may only read their own camp.
func (s *CampService) Get(ctx context.Context, campID string, actor *models.JWTClaims) (*models.CampManager, error) {
	if !actor.CanAccessCamp(campID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this camp")
	}
	camp, err := s.camps.FindByID(ctx, campID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "camp not found")
		}
		return nil, appErrors.Internal(err, "failed to load camp")
	}
	return camp, nil
}

// List returns every camp.
func (s *CampService) List(ctx context.Context) ([]models.CampManager, error) {
	camps, err := s.camps.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list camps")
	}
	if camps == nil {
		camps = []models.CampManager{}
	}
	return camps, nil
}

// Delete removes a camp.
func (s *CampService) Delete(ctx context.Context, campID string) error {
	if err := s.camps.Delete(ctx, campID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "camp not found")
		}
		return appErrors.Internal(err, "failed to delete camp")
	}
	s.logger.Info("camp deleted", zap.String("camp_id", campID))
	return nil
}

func (s *CampService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.camps.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return appErrors.Clone(appErrors.ErrConflict, "a camp with this email already exists")
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return appErrors.Internal(err, "failed to check email")
	}
}

// insert allocates an id and stores the camp. A duplicate id, possible when
// rows were imported without advancing the counter, takes the next value.
func (s *CampService) insert(ctx context.Context, camp *models.CampManager) error {
	for attempt := 1; ; attempt++ {
		id, err := s.ids.NextID(ctx, repository.SequenceCamp)
		if err != nil {
			return appErrors.Internal(err, "failed to allocate camp id")
		}
		camp.CampID = id

		err = s.camps.Create(ctx, camp)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return appErrors.Internal(err, "failed to create camp")
		}
		if conflict := s.ensureEmailFree(ctx, camp.Email); conflict != nil {
			return conflict
		}
		if attempt == campIDAttempts {
			return appErrors.Internal(err, "failed to allocate a free camp id")
		}
		s.logger.Warn("camp id taken, allocating another", zap.String("camp_id", id))
	}
}

func generatePassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
