package dto

import "time"

// DisasterRequest registers or replaces a disaster. The identifier is
// allocated by the server and never taken from the payload.
type DisasterRequest struct {
	Name               string    `json:"disasterName" validate:"required,max=200"`
	Location           string    `json:"location" validate:"required,max=300"`
	Latitude           *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude          *float64  `json:"longitude" validate:"omitempty,longitude"`
	DateOccurred       time.Time `json:"dateOccurred" validate:"required"`
	Type               string    `json:"disasterType" validate:"required,oneof=Flood Earthquake Fire Cyclone Landslide Tsunami Other"`
	Severity           string    `json:"severity" validate:"required,oneof=Low Medium High Critical"`
	Description        string    `json:"description"`
	AffectedPopulation int       `json:"affectedPopulation" validate:"gte=0"`
	Status             string    `json:"status" validate:"omitempty,oneof=Active Resolved"`
}
