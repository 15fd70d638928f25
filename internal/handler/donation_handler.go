package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/dto"
	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

type reconciliationService interface {
	Pledge(ctx context.Context, req dto.DonateItemRequest) (*models.PledgeResult, error)
	ConfirmReceived(ctx context.Context, donationID string, actor *models.JWTClaims) (*models.ConfirmationResult, error)
	ConfirmNotReceived(ctx context.Context, donationID string, actor *models.JWTClaims) (*models.ConfirmationResult, error)
}

type donationService interface {
	History(ctx context.Context, campID string, actor *models.JWTClaims) ([]models.DonationRecord, error)
	DonateMoney(ctx context.Context, req dto.DonateMoneyRequest) (*models.MoneyDonation, error)
}

// DonationHandler exposes pledge, confirmation and history endpoints.
type DonationHandler struct {
	ledger    reconciliationService
	donations donationService
}

// NewDonationHandler builds a new handler.
func NewDonationHandler(ledger reconciliationService, donations donationService) *DonationHandler {
	return &DonationHandler{ledger: ledger, donations: donations}
}

// DonateItem godoc
// @Summary Pledge items toward a request
// @Description Decrements the request immediately. Inventory changes only once the camp confirms receipt.
// @Tags Donations
// @Accept json
// @Produce json
// @Param payload body dto.DonateItemRequest true "Pledge payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /donor/donate-item [post]
func (h *DonationHandler) DonateItem(c *gin.Context) {
	if h.ledger == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.DonateItemRequest
	if !bindJSON(c, &req, "invalid donation payload") {
		return
	}
	res, err := h.ledger.Pledge(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "donation recorded", res)
}

// Receive godoc
// @Summary Confirm a donation arrived
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /camp-request/donations/{id}/receive [put]
func (h *DonationHandler) Receive(c *gin.Context) {
	if h.ledger == nil {
		serviceUnavailable(c)
		return
	}
	res, err := h.ledger.ConfirmReceived(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "donation marked as received", res)
}

// NotReceive godoc
// @Summary Record that a donation never arrived
// @Description Returns the pledged quantity to the request. Inventory is unchanged.
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /camp-request/donations/{id}/not-receive [put]
func (h *DonationHandler) NotReceive(c *gin.Context) {
	if h.ledger == nil {
		serviceUnavailable(c)
		return
	}
	res, err := h.ledger.ConfirmNotReceived(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "donation marked as not received", res)
}

// History godoc
// @Summary List donations to a camp
// @Tags Donations
// @Produce json
// @Param campId path string true "Camp ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /camp-request/donations/{campId} [get]
func (h *DonationHandler) History(c *gin.Context) {
	if h.donations == nil {
		serviceUnavailable(c)
		return
	}
	list, err := h.donations.History(c.Request.Context(), c.Param("campId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// DonateMoney godoc
// @Summary Record a monetary donation
// @Description Payment is not processed; the donation is stored as successful.
// @Tags Donations
// @Accept json
// @Produce json
// @Param payload body dto.DonateMoneyRequest true "Money donation"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /donor/donate-money [post]
func (h *DonationHandler) DonateMoney(c *gin.Context) {
	if h.donations == nil {
		serviceUnavailable(c)
		return
	}
	var req dto.DonateMoneyRequest
	if !bindJSON(c, &req, "invalid donation payload") {
		return
	}
	res, err := h.donations.DonateMoney(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "donation successful", res)
}
