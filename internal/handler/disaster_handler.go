package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

type disasterService interface {
	Register(ctx context.Context, req dto.DisasterRequest) (*models.Disaster, error)
	List(ctx context.Context) ([]models.Disaster, error)
	Get(ctx context.Context, id string) (*models.Disaster, error)
	Update(ctx context.Context, id string, req dto.DisasterRequest) (*models.Disaster, error)
	Delete(ctx context.Context, id string) error
}

// DisasterHandler exposes disaster registration endpoints.
type DisasterHandler struct {
	service disasterService
}

// NewDisasterHandler builds a new handler.
func NewDisasterHandler(svc disasterService) *DisasterHandler {
	return &DisasterHandler{service: svc}
}

// Register godoc
// @Summary Register a disaster
// @Tags Disasters
// @Accept json
// @Produce json
// @Param payload body dto.DisasterRequest true "Disaster payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/register-disaster [post]
func (h *DisasterHandler) Register(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.DisasterRequest
	if !bindJSON(c, &req, "invalid disaster payload") {
		return
	}
	d, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, d)
}

// List godoc
// @Summary List disasters
// @Tags Disasters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/disasters [get]
func (h *DisasterHandler) List(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Get godoc
// @Summary Get a disaster
// @Tags Disasters
// @Produce json
// @Param disasterId path string true "Disaster ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/disaster/{disasterId} [get]
func (h *DisasterHandler) Get(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	d, err := h.service.Get(c.Request.Context(), c.Param("disasterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, d, nil)
}

// Update godoc
// @Summary Update a disaster
// @Description The disaster id cannot be changed.
// @Tags Disasters
// @Accept json
// @Produce json
// @Param disasterId path string true "Disaster ID"
// @Param payload body dto.DisasterRequest true "Disaster payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/disaster/{disasterId} [put]
func (h *DisasterHandler) Update(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.DisasterRequest
	if !bindJSON(c, &req, "invalid disaster payload") {
		return
	}
	d, err := h.service.Update(c.Request.Context(), c.Param("disasterId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, d, nil)
}

// Delete godoc
// @Summary Delete a disaster
// @Tags Disasters
// @Param disasterId path string true "Disaster ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/disaster/{disasterId} [delete]
func (h *DisasterHandler) Delete(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("disasterId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
