package dto

// AdminLoginRequest carries the configured administrator credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CampManagerLoginRequest signs a camp manager in by email or camp id.
type CampManagerLoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	CampID   string `json:"campId"`
	Password string `json:"password" validate:"required"`
}
