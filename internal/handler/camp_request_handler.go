package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

type campRequestService interface {
	Create(ctx context.Context, req dto.CreateSupplyRequest, actor *models.JWTClaims) (*models.CampRequest, error)
	ListOpen(ctx context.Context, query dto.SupplyRequestQuery) ([]models.CampRequest, error)
	ListByCamp(ctx context.Context, campID string, actor *models.JWTClaims) ([]models.CampRequest, error)
}

// CampRequestHandler exposes supply request endpoints.
type CampRequestHandler struct {
	service campRequestService
}

// NewCampRequestHandler builds a new handler.
func NewCampRequestHandler(svc campRequestService) *CampRequestHandler {
	return &CampRequestHandler{service: svc}
}

// Create godoc
// @Summary Publish a supply request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateSupplyRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /camp-request [post]
func (h *CampRequestHandler) Create(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.CreateSupplyRequest
	if !bindJSON(c, &req, "invalid request payload") {
		return
	}
	created, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// ListOpen godoc
// @Summary List open supply requests
// @Description Public donor view of requests still awaiting pledges.
// @Tags Requests
// @Produce json
// @Param campId query string false "Camp ID"
// @Param category query string false "Category"
// @Param priority query string false "Priority" Enums(Low, Medium, High, Critical)
// @Success 200 {object} response.Envelope
// @Router /camp/requests [get]
func (h *CampRequestHandler) ListOpen(c *gin.Context) {
	if h.service == nil {
		serviceUnavailable(c)
		return
	}
	var query dto.SupplyRequestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filters"))
		return
	}
	list, err := h.service.ListOpen(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// ListByCamp godoc
// @Summary List every request of a camp
// @Tags Requests
// @Produce json
// @Param campId path string true "Camp ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /camp-request/{campId} [get]
func (h *CampRequestHandler) ListByCamp(c *gin.Context) {
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
