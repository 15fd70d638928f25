package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/export"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

type inventoryService interface {
	Summary(ctx context.Context, campID string) ([]models.InventorySummaryItem, error)
	Export(ctx context.Context, campID, format string) ([]byte, string, export.Format, error)
}

type inventoryWriter interface {
	ManualInventorySet(ctx context.Context, req dto.InventoryUpdateRequest, actor *models.JWTClaims) (*models.ManualInventoryResult, error)
}

// InventoryHandler exposes camp inventory views and the manual override.
type InventoryHandler struct {
	inventory inventoryService
	ledger    inventoryWriter
}

// NewInventoryHandler builds a new handler.
func NewInventoryHandler(inventory inventoryService, ledger inventoryWriter) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, ledger: ledger}
}

// Summary godoc
// @Summary Inventory summary of a camp
// @Description One row per item with requested, received and current stock plus received donors.
// @Tags Inventory
// @Produce json
// @Param campId path string true "Camp ID"
// @Success 200 {object} response.Envelope
// @Router /inventory/{campId} [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	if h.inventory == nil {
		serviceUnavailable(c)
		return
	}
	items, err := h.inventory.Summary(c.Request.Context(), c.Param("campId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Overwrite the stock of an item
// @Description Manual reconciliation reset; the oldest open request for the item is resynchronised.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body dto.InventoryUpdateRequest true "Inventory payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /inventory/update [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	if h.ledger == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.InventoryUpdateRequest
	if !bindJSON(c, &req, "invalid inventory payload") {
		return
	}
	res, err := h.ledger.ManualInventorySet(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "inventory updated", res)
}

// Export godoc
// @Summary Download the inventory summary
// @Tags Inventory
// @Produce text/csv
// @Produce application/pdf
// @Param campId path string true "Camp ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /inventory/{campId}/export [get]
func (h *InventoryHandler) Export(c *gin.Context) {
	if h.inventory == nil {
		serviceUnavailable(c)
		return
	}
	body, filename, format, err := h.inventory.Export(c.Request.Context(), c.Param("campId"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, format.ContentType(), body)
}
