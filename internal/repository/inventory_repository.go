package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sahaya-relief/camp-api/internal/models"
)

// InventoryRepository reads on-hand stock. Writes go through LedgerRepository.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository constructs the repository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListByCamp returns every inventory row of a camp ordered by item.
func (r *InventoryRepository) ListByCamp(ctx context.Context, campID string) ([]models.InventoryRecord, error) {
	query := r.db.Rebind(`SELECT camp_id, item_name, quantity, last_updated FROM inventory WHERE camp_id = ? ORDER BY item_name`)
	var items []models.InventoryRecord
	if err := r.db.SelectContext(ctx, &items, query, campID); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// Get fetches a single inventory row.
func (r *InventoryRepository) Get(ctx context.Context, campID, itemName string) (*models.InventoryRecord, error) {
	query := r.db.Rebind(`SELECT camp_id, item_name, quantity, last_updated FROM inventory WHERE camp_id = ? AND item_name = ?`)
	var item models.InventoryRecord
	if err := r.db.GetContext(ctx, &item, query, campID, itemName); err != nil {
		return nil, err
	}
	return &item, nil
}
