package models

import "time"

// InventoryRecord is the on-hand quantity of an item at a camp.
type InventoryRecord struct {
	CampID      string    `db:"camp_id" json:"campId"`
	ItemName    string    `db:"item_name" json:"itemName"`
	Quantity    int       `db:"quantity" json:"quantity"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
}

// DonorContribution is one received donation listed under an inventory item.
type DonorContribution struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// InventorySummaryItem is one row of the per-camp inventory view.
type InventorySummaryItem struct {
	ItemName     string              `json:"itemName"`
	Requested    int                 `json:"requested"`
	Received     int                 `json:"received"`
	CurrentStock int                 `json:"currentStock"`
	Donors       []DonorContribution `json:"donors"`
}

// ManualInventoryResult reports an administrative inventory overwrite and
// the open request it re-synchronised, if any.
type ManualInventoryResult struct {
	Inventory InventoryRecord `json:"inventory"`
	Request   *CampRequest    `json:"request,omitempty"`
}
