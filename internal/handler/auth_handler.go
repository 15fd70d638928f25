package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

type authService interface {
	AdminLogin(ctx context.Context, req dto.AdminLoginRequest) (*models.LoginResponse, error)
	CampManagerLogin(ctx context.Context, req dto.CampManagerLoginRequest) (*models.LoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// AdminLogin godoc
// @Summary Authenticate the administrator
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.AdminLoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	res, err := h.service.AdminLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// CampManagerLogin godoc
// @Summary Authenticate a camp manager
// @Description Accepts either the camp email or the camp id with the password.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.CampManagerLoginRequest true "Camp manager credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /camp-manager/login [post]
func (h *AuthHandler) CampManagerLogin(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.CampManagerLoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	res, err := h.service.CampManagerLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
