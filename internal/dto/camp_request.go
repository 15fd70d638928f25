package dto

// CreateSupplyRequest declares a camp's need for an item.
type CreateSupplyRequest struct {
	CampID      string `json:"campId" validate:"required"`
	ItemName    string `json:"itemName" validate:"required,max=200"`
	RequiredQty int    `json:"requiredQty" validate:"required,gt=0"`
	Unit        string `json:"unit" validate:"max=32"`
	Category    string `json:"category" validate:"max=64"`
	Priority    string `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
}

// SupplyRequestQuery filters the public list of open requests.
type SupplyRequestQuery struct {
	CampID   string `form:"campId"`
	Category string `form:"category"`
	Priority string `form:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
}
