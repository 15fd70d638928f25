package models

import "time"

// Gender values accepted for camp residents.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// InmateStatus tracks whether a resident is still at the camp.
type InmateStatus string

const (
	InmateStatusActive    InmateStatus = "Active"
	InmateStatusRelocated InmateStatus = "Relocated"
	InmateStatusLeft      InmateStatus = "Left"
)

// Inmate is a person sheltered at a camp.
type Inmate struct {
	ID                string       `db:"id" json:"id"`
	CampID            string       `db:"camp_id" json:"campId"`
	Name              string       `db:"name" json:"name"`
	Age               int          `db:"age" json:"age"`
	Gender            Gender       `db:"gender" json:"gender"`
	ContactNumber     string       `db:"contact_number" json:"contactNumber"`
	AadharNumber      string       `db:"aadhar_number" json:"aadharNumber"`
	Address           string       `db:"address" json:"address"`
	FamilyMembers     int          `db:"family_members" json:"familyMembers"`
	MedicalConditions string       `db:"medical_conditions" json:"medicalConditions"`
	Status            InmateStatus `db:"status" json:"status"`
	RegisteredAt      time.Time    `db:"registered_at" json:"registeredAt"`
}

// InmateStats aggregates the active residents of a camp.
type InmateStats struct {
	CampID   string         `json:"campId"`
	Total    int            `json:"total"`
	ByGender map[string]int `json:"byGender"`
	ByAge    map[string]int `json:"byAgeGroup"`
}

// AgeGroup buckets an age for InmateStats.
func AgeGroup(age int) string {
	switch {
	case age <= 18:
		return "0-18"
	case age <= 35:
		return "19-35"
	case age <= 60:
		return "36-60"
	default:
		return "60+"
	}
}
