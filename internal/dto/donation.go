package dto

import "github.com/shopspring/decimal"

// DonateItemRequest pledges a quantity toward a supply request.
type DonateItemRequest struct {
	RequestID string `json:"requestId" validate:"required"`
	DonateQty int    `json:"donateQty" validate:"required,gt=0"`
	DonorName string `json:"donorName" validate:"max=200"`
}

// DonateMoneyRequest records a monetary donation.
type DonateMoneyRequest struct {
	DonorID string          `json:"donorId" validate:"max=64"`
	CampID  string          `json:"campId" validate:"required"`
	Amount  decimal.Decimal `json:"amount"`
}
