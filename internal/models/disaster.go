package models

import "time"

// DisasterType enumerates the kinds of disaster that can be registered.
type DisasterType string

const (
	DisasterFlood      DisasterType = "Flood"
	DisasterEarthquake DisasterType = "Earthquake"
	DisasterFire       DisasterType = "Fire"
	DisasterCyclone    DisasterType = "Cyclone"
	DisasterLandslide  DisasterType = "Landslide"
	DisasterTsunami    DisasterType = "Tsunami"
	DisasterOther      DisasterType = "Other"
)

// Severity is shared by disasters and request priorities.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// DisasterStatus tracks whether relief is ongoing.
type DisasterStatus string

const (
	DisasterStatusActive   DisasterStatus = "Active"
	DisasterStatusResolved DisasterStatus = "Resolved"
)

// Disaster is a registered disaster event.
type Disaster struct {
	DisasterID         string         `db:"disaster_id" json:"disasterId"`
	Name               string         `db:"disaster_name" json:"disasterName"`
	Location           string         `db:"location" json:"location"`
	Latitude           *float64       `db:"latitude" json:"latitude,omitempty"`
	Longitude          *float64       `db:"longitude" json:"longitude,omitempty"`
	DateOccurred       time.Time      `db:"date_occurred" json:"dateOccurred"`
	Type               DisasterType   `db:"disaster_type" json:"disasterType"`
	Severity           Severity       `db:"severity" json:"severity"`
	Description        string         `db:"description" json:"description"`
	AffectedPopulation int            `db:"affected_population" json:"affectedPopulation"`
	Status             DisasterStatus `db:"status" json:"status"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}
