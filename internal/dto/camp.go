package dto

// CreateCampRequest registers a camp and its manager. Password is generated
// when omitted.
type CreateCampRequest struct {
	CampName      string `json:"campName" validate:"required,max=200"`
	ManagerName   string `json:"managerName" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"omitempty,min=8,max=72"`
	Location      string `json:"location" validate:"max=300"`
	ContactNumber string `json:"contactNumber" validate:"max=32"`
}
