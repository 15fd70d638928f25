package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type stubCampStore struct {
	camps   map[string]*models.CampManager
	created []*models.CampManager
	// createErrs are returned by successive Create calls before succeeding.
	createErrs []error
	deleteErr  error
}

func newStubCampStore(camps ...*models.CampManager) *stubCampStore {
	s := &stubCampStore{camps: map[string]*models.CampManager{}}
	for _, c := range camps {
		s.camps[c.CampID] = c
	}
	return s
}

func (s *stubCampStore) Create(_ context.Context, camp *models.CampManager) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		return err
	}
	stored := *camp
	s.camps[camp.CampID] = &stored
	s.created = append(s.created, &stored)
	return nil
}

func (s *stubCampStore) FindByID(_ context.Context, campID string) (*models.CampManager, error) {
	if c, ok := s.camps[campID]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubCampStore) FindByEmail(_ context.Context, email string) (*models.CampManager, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, c := range s.camps {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubCampStore) List(context.Context) ([]models.CampManager, error) {
	out := make([]models.CampManager, 0, len(s.camps))
	for _, c := range s.camps {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCampStore) Delete(_ context.Context, campID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.camps[campID]; !ok {
		return sql.ErrNoRows
	}
	delete(s.camps, campID)
	return nil
}

func newTestAuthService(t *testing.T, camps ...*models.CampManager) *AuthService {
	t.Helper()
	return NewAuthService(newStubCampStore(camps...), nil, nil, AuthConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		Issuer:        "sahaya-test",
		AdminUsername: "admin",
		AdminPassword: "s3cret",
	})
}

func campWithPassword(t *testing.T, id, email, password string) *models.CampManager {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &models.CampManager{CampID: id, CampName: "Camp " + id, Email: email, PasswordHash: hash}
}

func TestAdminLogin(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "admin", claims.Subject)

	_, err = svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidCredentials))

	_, err = svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Username: "admin"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
}

func TestCampManagerLogin(t *testing.T) {
	svc := newTestAuthService(t, campWithPassword(t, "CAMP001", "lead@camp.org", "pa55word"))
	ctx := context.Background()

	byEmail, err := svc.CampManagerLogin(ctx, dto.CampManagerLoginRequest{Email: "Lead@Camp.org", Password: "pa55word"})
	require.NoError(t, err)
	assert.Equal(t, "CAMP001", byEmail.CampID)
	assert.Equal(t, "Camp CAMP001", byEmail.CampName)

	claims, err := svc.ValidateToken(byEmail.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCampManager, claims.Role)
	assert.Equal(t, "CAMP001", claims.CampID)
	assert.True(t, claims.CanAccessCamp("CAMP001"))
	assert.False(t, claims.CanAccessCamp("CAMP002"))

	_, err = svc.CampManagerLogin(ctx, dto.CampManagerLoginRequest{CampID: "CAMP001", Password: "pa55word"})
	require.NoError(t, err)

	_, err = svc.CampManagerLogin(ctx, dto.CampManagerLoginRequest{CampID: "CAMP001", Password: "nope"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidCredentials))

	_, err = svc.CampManagerLogin(ctx, dto.CampManagerLoginRequest{CampID: "CAMP404", Password: "pa55word"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidCredentials))

	_, err = svc.CampManagerLogin(ctx, dto.CampManagerLoginRequest{Password: "pa55word"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
}

func TestValidateTokenRejectsForeignTokens(t *testing.T) {
	svc := newTestAuthService(t)

	other := NewAuthService(nil, nil, nil, AuthConfig{Secret: "other", Issuer: "sahaya-test"})
	resp, err := other.issue(&models.JWTClaims{Role: models.RoleAdmin}, "admin", "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(resp.Token)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeUnauthorized))

	noCamp := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Role:             models.RoleCampManager,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "sahaya-test", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := noCamp.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeUnauthorized))

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.issue(&models.JWTClaims{Role: models.RoleAdmin}, "admin", "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired.Token)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeUnauthorized))
}
