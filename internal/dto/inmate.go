package dto

// RegisterInmateRequest adds a resident to a camp.
type RegisterInmateRequest struct {
	CampID            string `json:"campId" validate:"required"`
	Name              string `json:"name" validate:"required,max=200"`
	Age               *int   `json:"age" validate:"required,gte=0,lte=130"`
	Gender            string `json:"gender" validate:"required,oneof=Male Female Other"`
	ContactNumber     string `json:"contactNumber" validate:"max=32"`
	AadharNumber      string `json:"aadharNumber" validate:"omitempty,len=12,numeric"`
	Address           string `json:"address" validate:"max=500"`
	FamilyMembers     int    `json:"familyMembers" validate:"gte=0"`
	MedicalConditions string `json:"medicalConditions" validate:"max=1000"`
}

// UpdateInmateRequest changes mutable resident details. Nil fields are kept.
type UpdateInmateRequest struct {
	Name              *string `json:"name" validate:"omitempty,max=200"`
	Age               *int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	Gender            *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	ContactNumber     *string `json:"contactNumber" validate:"omitempty,max=32"`
	Address           *string `json:"address" validate:"omitempty,max=500"`
	FamilyMembers     *int    `json:"familyMembers" validate:"omitempty,gte=0"`
	MedicalConditions *string `json:"medicalConditions" validate:"omitempty,max=1000"`
	Status            *string `json:"status" validate:"omitempty,oneof=Active Relocated Left"`
}
