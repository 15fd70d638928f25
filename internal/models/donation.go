package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatus moves from Pending to exactly one terminal state.
type DonationStatus string

const (
	DonationStatusPending     DonationStatus = "Pending"
	DonationStatusReceived    DonationStatus = "Received"
	DonationStatusNotReceived DonationStatus = "Not Received"
)

// DefaultDonorName is recorded when a donor pledges without a name.
const DefaultDonorName = "Anonymous Donor"

// DonationRecord is a pledge of a quantity of an item toward a CampRequest.
// RequestID is fixed at pledge time.
type DonationRecord struct {
	ID         string         `db:"id" json:"id"`
	RequestID  string         `db:"request_id" json:"requestId"`
	CampID     string         `db:"camp_id" json:"campId"`
	DonorName  string         `db:"donor_name" json:"donorName"`
	ItemName   string         `db:"item_name" json:"itemName"`
	Quantity   int            `db:"quantity" json:"quantity"`
	Unit       string         `db:"unit" json:"unit"`
	Status     DonationStatus `db:"status" json:"status"`
	DonatedAt  time.Time      `db:"donated_at" json:"donatedAt"`
	ReceivedAt *time.Time     `db:"received_at" json:"receivedAt,omitempty"`
}

// PledgeResult reports the request balance after a pledge.
type PledgeResult struct {
	Donation  DonationRecord `json:"donation"`
	Remaining int            `json:"remaining"`
}

// ConfirmationResult reports ledger balances after a donation is resolved.
type ConfirmationResult struct {
	DonationID      string         `json:"donationId"`
	Status          DonationStatus `json:"status"`
	NewInventory    int            `json:"newInventory"`
	RemainingNeeded int            `json:"remainingNeeded"`
}

// PaymentStatus of a money donation. Payments are not processed so every
// recorded donation is SUCCESS.
type PaymentStatus string

const PaymentStatusSuccess PaymentStatus = "SUCCESS"

// MoneyDonation is a monetary gift to a camp.
type MoneyDonation struct {
	ID            string          `db:"id" json:"id"`
	DonorID       string          `db:"donor_id" json:"donorId"`
	CampID        string          `db:"camp_id" json:"campId"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"paymentStatus"`
	DonatedAt     time.Time       `db:"donated_at" json:"donatedAt"`
}
