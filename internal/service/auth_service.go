package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type campCredentialStore interface {
	FindByID(ctx context.Context, campID string) (*models.CampManager, error)
	FindByEmail(ctx context.Context, email string) (*models.CampManager, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret        string
	Expiry        time.Duration
	Issuer        string
	AdminUsername string
	AdminPassword string
}

// AuthService issues and validates access tokens for admins and camp managers.
type AuthService struct {
	camps     campCredentialStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(camps campCredentialStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	return &AuthService{camps: camps, validator: validate, logger: logger, config: config, now: time.Now}
}

// AdminLogin checks the configured administrator credentials.
func (s *AuthService) AdminLogin(_ context.Context, req dto.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.config.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.AdminPassword)) == 1
	if !userOK || !passOK || s.config.AdminPassword == "" {
		s.logger.Warn("admin login rejected", zap.String("username", req.Username))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin credentials")
	}

	claims := &models.JWTClaims{Role: models.RoleAdmin}
	return s.issue(claims, req.Username, "")
}

// CampManagerLogin authenticates a camp manager by email or camp id.
func (s *AuthService) CampManagerLogin(ctx context.Context, req dto.CampManagerLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.CampID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email or campId is required")
	}

	var (
		camp *models.CampManager
		err  error
	)
	if req.Email != "" {
		camp, err = s.camps.FindByEmail(ctx, req.Email)
	} else {
		camp, err = s.camps.FindByID(ctx, strings.TrimSpace(req.CampID))
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
		}
		return nil, appErrors.Internal(err, "failed to load camp")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(camp.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	claims := &models.JWTClaims{Role: models.RoleCampManager, CampID: camp.CampID, Email: camp.Email}
	resp, err := s.issue(claims, camp.CampID, camp.CampName)
	if err != nil {
		return nil, err
	}
	s.logger.Info("camp manager signed in", zap.String("camp_id", camp.CampID))
	return resp, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Role == models.RoleCampManager && claims.CampID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "camp manager token without camp")
	}
	return claims, nil
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) issue(claims *models.JWTClaims, subject, campName string) (*models.LoginResponse, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.LoginResponse{
		Token:     signed,
		ExpiresIn: int64(s.config.Expiry.Seconds()),
		Role:      claims.Role,
		CampID:    claims.CampID,
		CampName:  campName,
		IssuedAt:  issuedAt,
	}, nil
}
