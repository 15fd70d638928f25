package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

type campService interface {
	Create(ctx context.Context, req dto.CreateCampRequest) (*models.CampCreated, error)
	Get(ctx context.Context, campID string, actor *models.JWTClaims) (*models.CampManager, error)
	List(ctx context.Context) ([]models.CampManager, error)
	Delete(ctx context.Context, campID string) error
}

// CampHandler exposes camp registration and profiles.
type CampHandler struct {
	service campService
}

// NewCampHandler builds a new handler.
func NewCampHandler(svc campService) *CampHandler {
	return &CampHandler{service: svc}
}

// Create godoc
// @Summary Register a camp and its manager
// @Description Allocates the camp id, generates a password when none is given and e-mails the credentials.
// @Tags Camps
// @Accept json
// @Produce json
// @Param payload body dto.CreateCampRequest true "Camp payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/create-camp [post]
func (h *CampHandler) Create(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.CreateCampRequest
	if !bindJSON(c, &req, "invalid camp payload") {
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// List godoc
// @Summary List camps
// @Tags Camps
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/camps [get]
func (h *CampHandler) List(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	camps, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, camps, nil)
}

// Profile godoc
// @Summary Get a camp profile
// @Tags Camps
// @Produce json
// @Param campId path string true "Camp ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /camp-manager/profile/{campId} [get]
func (h *CampHandler) Profile(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	camp, err := h.service.Get(c.Request.Context(), c.Param("campId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, camp, nil)
}

// Delete godoc
// @Summary Delete a camp
// @Tags Camps
// @Param campId path string true "Camp ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/camp/{campId} [delete]
func (h *CampHandler) Delete(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("campId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
