package models

import "time"

// CampManager is a registered relief camp and the credentials of the person running it.
type CampManager struct {
	CampID        string    `db:"camp_id" json:"campId"`
	CampName      string    `db:"camp_name" json:"campName"`
	ManagerName   string    `db:"manager_name" json:"managerName"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Location      string    `db:"location" json:"location"`
	ContactNumber string    `db:"contact_number" json:"contactNumber"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// CampCreated is returned once to the admin who registered the camp.
type CampCreated struct {
	Camp      CampManager `json:"camp"`
	Password  string      `json:"password"`
	EmailSent bool        `json:"emailQueued"`
}
