package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/middleware"
	"github.com/sahaya-relief/camp-api/internal/models"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

type campServiceMock struct {
	created   dto.CreateCampRequest
	createErr error
	deleted   string
}

func (m *campServiceMock) Create(ctx context.Context, req dto.CreateCampRequest) (*models.CampCreated, error) {
	m.created = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.CampCreated{
		Camp:      models.CampManager{CampID: "CAMP001", CampName: req.CampName, Email: req.Email, PasswordHash: "secret-hash"},
		Password:  "generated-pw",
		EmailSent: true,
	}, nil
}

func (m *campServiceMock) Get(ctx context.Context, campID string, actor *models.JWTClaims) (*models.CampManager, error) {
	if !actor.CanAccessCamp(campID) {
		return nil, appErrors.ErrForbidden
	}
	return &models.CampManager{CampID: campID}, nil
}

func (m *campServiceMock) List(ctx context.Context) ([]models.CampManager, error) {
	return []models.CampManager{}, nil
}

func (m *campServiceMock) Delete(ctx context.Context, campID string) error {
	m.deleted = campID
	return nil
}

func TestCampHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &campServiceMock{}
	handler := NewCampHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateCampRequest{CampName: "Riverside", ManagerName: "Meera", Email: "meera@example.org"})
	req, _ := http.NewRequest(http.MethodPost, "/admin/create-camp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Riverside", svc.created.CampName)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "generated-pw", data["password"])
	assert.Equal(t, true, data["emailQueued"])
}

func TestCampHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCampHandler(&campServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "email already registered")})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateCampRequest{CampName: "Riverside", ManagerName: "Meera", Email: "meera@example.org"})
	req, _ := http.NewRequest(http.MethodPost, "/admin/create-camp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "email already registered", envelope["message"])
}

func TestCampHandlerProfileAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &campServiceMock{}
	handler := NewCampHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/camp-manager/profile/CAMP002", nil)
	c.Params = gin.Params{{Key: "campId", Value: "CAMP002"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleCampManager, CampID: "CAMP001"})
	handler.Profile(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/admin/camp/CAMP001", nil)
	c.Params = gin.Params{{Key: "campId", Value: "CAMP001"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "CAMP001", svc.deleted)
}
