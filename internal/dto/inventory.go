package dto

// InventoryUpdateRequest overwrites the on-hand quantity of an item.
type InventoryUpdateRequest struct {
	CampID   string `json:"campId" validate:"required"`
	ItemName string `json:"itemName" validate:"required,max=200"`
	Quantity *int   `json:"quantity" validate:"required,gte=0"`
}
