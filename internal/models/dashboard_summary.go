package models

import "github.com/shopspring/decimal"

// DashboardSummary is the admin overview across all camps.
type DashboardSummary struct {
	TotalCamps        int             `json:"totalCamps"`
	TotalRequests     int             `json:"totalRequests"`
	FulfilledRequests int             `json:"fulfilledRequests"`
	PendingRequests   int             `json:"pendingRequests"`
	PendingDonations  int             `json:"pendingDonations"`
	TotalMoneyDonated decimal.Decimal `json:"totalMoneyDonated"`
	ActiveInmates     int             `json:"activeInmates"`
	ActiveDisasters   int             `json:"activeDisasters"`
}
