package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

type inmateService interface {
	Register(ctx context.Context, req dto.RegisterInmateRequest, actor *models.JWTClaims) (*models.Inmate, error)
	ListByCamp(ctx context.Context, campID string, actor *models.JWTClaims) ([]models.Inmate, error)
	Stats(ctx context.Context, campID string, actor *models.JWTClaims) (*models.InmateStats, error)
	Update(ctx context.Context, id string, req dto.UpdateInmateRequest, actor *models.JWTClaims) (*models.Inmate, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// InmateHandler exposes the camp resident register.
type InmateHandler struct {
	service inmateService
}

// NewInmateHandler builds a new handler.
func NewInmateHandler(svc inmateService) *InmateHandler {
	return &InmateHandler{service: svc}
}

// Register godoc
// @Summary Register a resident
// @Tags Inmates
// @Accept json
// @Produce json
// @Param payload body dto.RegisterInmateRequest true "Resident payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /inmates/register [post]
func (h *InmateHandler) Register(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.RegisterInmateRequest
	if !bindJSON(c, &req, "invalid inmate payload") {
		return
	}
	inmate, err := h.service.Register(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inmate)
}

// List godoc
// @Summary List residents of a camp
// @Tags Inmates
// @Produce json
// @Param campId path string true "Camp ID"
// @Success 200 {object} response.Envelope
// @Router /inmates/{campId} [get]
func (h *InmateHandler) List(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	list, err := h.service.ListByCamp(c.Request.Context(), c.Param("campId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Stats godoc
// @Summary Resident statistics of a camp
// @Description Active residents by gender and age group.
// @Tags Inmates
// @Produce json
// @Param campId path string true "Camp ID"
// @Success 200 {object} response.Envelope
// @Router /inmates/{campId}/stats [get]
func (h *InmateHandler) Stats(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), c.Param("campId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Update godoc
// @Summary Update a resident
// @Tags Inmates
// @Accept json
// @Produce json
// @Param inmateId path string true "Inmate ID"
// @Param payload body dto.UpdateInmateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inmates/{inmateId} [put]
func (h *InmateHandler) Update(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.UpdateInmateRequest
	if !bindJSON(c, &req, "invalid inmate payload") {
		return
	}
	inmate, err := h.service.Update(c.Request.Context(), c.Param("inmateId"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inmate, nil)
}

// Delete godoc
// @Summary Delete a resident
// @Tags Inmates
// @Param inmateId path string true "Inmate ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /inmates/{inmateId} [delete]
func (h *InmateHandler) Delete(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("inmateId"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
