package models

import "time"

// RequestStatus is Fulfilled exactly when nothing remains to be pledged.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusFulfilled RequestStatus = "Fulfilled"
)

// CampRequest is one outstanding need for an item at a camp.
type CampRequest struct {
	ID           string        `db:"id" json:"id"`
	CampID       string        `db:"camp_id" json:"campId"`
	CampName     string        `db:"camp_name" json:"campName"`
	ItemName     string        `db:"item_name" json:"itemName"`
	Unit         string        `db:"unit" json:"unit"`
	Category     string        `db:"category" json:"category"`
	Priority     Severity      `db:"priority" json:"priority"`
	RequiredQty  int           `db:"required_qty" json:"requiredQty"`
	RemainingQty int           `db:"remaining_qty" json:"remainingQty"`
	Status       RequestStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// CampRequestFilter constrains request listings.
type CampRequestFilter struct {
	CampID   string
	Category string
	Priority Severity
	Status   RequestStatus
}
