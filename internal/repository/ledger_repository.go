package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahaya-relief/camp-api/internal/models"
	"github.com/sahaya-relief/camp-api/pkg/database"
)

// ErrRequestUnavailable means a pledge could not be absorbed: the request is
// fulfilled or has less remaining than was pledged.
var ErrRequestUnavailable = errors.New("request cannot absorb pledge")

// DonationStateError is returned when a donation is no longer Pending.
type DonationStateError struct {
	Status models.DonationStatus
}

func (e *DonationStateError) Error() string {
	return fmt.Sprintf("donation is %q, not pending", e.Status)
}

// PledgeParams describes a donor's pledge toward a request.
type PledgeParams struct {
	RequestID string
	Quantity  int
	DonorName string
	At        time.Time
}

// LedgerRepository applies donation state transitions to the request,
// donation and inventory tables inside one transaction. Every write is a
// conditional update so a concurrent writer can never be overwritten.
type LedgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository constructs the repository.
func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Pledge decrements the request's remaining quantity and records a Pending
// donation referencing it. Inventory is not touched.
func (r *LedgerRepository) Pledge(ctx context.Context, p PledgeParams) (*models.PledgeResult, error) {
	var result *models.PledgeResult
	err := database.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var req models.CampRequest
		query := tx.Rebind(`SELECT ` + requestColumns + ` FROM camp_requests WHERE id = ?`)
		if err := tx.GetContext(ctx, &req, query, p.RequestID); err != nil {
			return err
		}
		if req.Status != models.RequestStatusPending || req.RemainingQty < p.Quantity {
			return ErrRequestUnavailable
		}

		var remaining int
		update := tx.Rebind(`UPDATE camp_requests
		SET remaining_qty = remaining_qty - ?,
		    status = CASE WHEN remaining_qty - ? = 0 THEN 'Fulfilled' ELSE 'Pending' END,
		    updated_at = ?
		WHERE id = ? AND status = 'Pending' AND remaining_qty >= ?
		RETURNING remaining_qty`)
		err := tx.QueryRowxContext(ctx, update, p.Quantity, p.Quantity, p.At, p.RequestID, p.Quantity).Scan(&remaining)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestUnavailable
		}
		if err != nil {
			return fmt.Errorf("decrement request: %w", err)
		}

		donation := models.DonationRecord{
			ID:        uuid.NewString(),
			RequestID: req.ID,
			CampID:    req.CampID,
			DonorName: p.DonorName,
			ItemName:  req.ItemName,
			Quantity:  p.Quantity,
			Unit:      req.Unit,
			Status:    models.DonationStatusPending,
			DonatedAt: p.At,
		}
		const insert = `INSERT INTO donation_records (` + donationColumns + `)
		VALUES (:id, :request_id, :camp_id, :donor_name, :item_name, :quantity, :unit, :status, :donated_at, :received_at)`
		if _, err := tx.NamedExecContext(ctx, insert, donation); err != nil {
			return fmt.Errorf("insert donation: %w", err)
		}

		result = &models.PledgeResult{Donation: donation, Remaining: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmReceived marks a Pending donation Received, adds its quantity to the
// camp's inventory and marks the request Fulfilled if nothing remains.
func (r *LedgerRepository) ConfirmReceived(ctx context.Context, donationID string, at time.Time) (*models.ConfirmationResult, *models.DonationRecord, error) {
	var (
		result   *models.ConfirmationResult
		donation *models.DonationRecord
	)
	err := database.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		d, err := resolvePending(ctx, tx, donationID, models.DonationStatusReceived, &at)
		if err != nil {
			return err
		}

		var stock int
		upsert := tx.Rebind(`INSERT INTO inventory (camp_id, item_name, quantity, last_updated) VALUES (?, ?, ?, ?)
		ON CONFLICT (camp_id, item_name) DO UPDATE
		SET quantity = inventory.quantity + excluded.quantity, last_updated = excluded.last_updated
		RETURNING quantity`)
		if err := tx.QueryRowxContext(ctx, upsert, d.CampID, d.ItemName, d.Quantity, at).Scan(&stock); err != nil {
			return fmt.Errorf("increment inventory: %w", err)
		}

		var remaining int
		fulfil := tx.Rebind(`UPDATE camp_requests
		SET status = CASE WHEN remaining_qty = 0 THEN 'Fulfilled' ELSE status END,
		    updated_at = CASE WHEN remaining_qty = 0 AND status <> 'Fulfilled' THEN ? ELSE updated_at END
		WHERE id = ?
		RETURNING remaining_qty`)
		err = tx.QueryRowxContext(ctx, fulfil, at, d.RequestID).Scan(&remaining)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sync request: %w", err)
		}

		d.Status = models.DonationStatusReceived
		d.ReceivedAt = &at
		donation = d
		result = &models.ConfirmationResult{
			DonationID:      d.ID,
			Status:          d.Status,
			NewInventory:    stock,
			RemainingNeeded: remaining,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, donation, nil
}

// ConfirmNotReceived marks a Pending donation Not Received and gives its
// quantity back to the request, reopening it. Inventory is only read.
func (r *LedgerRepository) ConfirmNotReceived(ctx context.Context, donationID string, at time.Time) (*models.ConfirmationResult, *models.DonationRecord, error) {
	var (
		result   *models.ConfirmationResult
		donation *models.DonationRecord
	)
	err := database.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		d, err := resolvePending(ctx, tx, donationID, models.DonationStatusNotReceived, nil)
		if err != nil {
			return err
		}

		var remaining int
		restore := tx.Rebind(`UPDATE camp_requests
		SET remaining_qty = CASE WHEN remaining_qty + ? > required_qty THEN required_qty ELSE remaining_qty + ? END,
		    status = 'Pending',
		    updated_at = ?
		WHERE id = ?
		RETURNING remaining_qty`)
		err = tx.QueryRowxContext(ctx, restore, d.Quantity, d.Quantity, at, d.RequestID).Scan(&remaining)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("restore request: %w", err)
		}

		stock, err := currentStock(ctx, tx, d.CampID, d.ItemName)
		if err != nil {
			return err
		}

		d.Status = models.DonationStatusNotReceived
		donation = d
		result = &models.ConfirmationResult{
			DonationID:      d.ID,
			Status:          d.Status,
			NewInventory:    stock,
			RemainingNeeded: remaining,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, donation, nil
}

// SetInventory overwrites the on-hand quantity of an item and resets the
// oldest open request for it to max(0, required - quantity).
func (r *LedgerRepository) SetInventory(ctx context.Context, campID, itemName string, quantity int, at time.Time) (*models.ManualInventoryResult, error) {
	var result *models.ManualInventoryResult
	err := database.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		upsert := tx.Rebind(`INSERT INTO inventory (camp_id, item_name, quantity, last_updated) VALUES (?, ?, ?, ?)
		ON CONFLICT (camp_id, item_name) DO UPDATE
		SET quantity = excluded.quantity, last_updated = excluded.last_updated`)
		if _, err := tx.ExecContext(ctx, upsert, campID, itemName, quantity, at); err != nil {
			return fmt.Errorf("overwrite inventory: %w", err)
		}
		result = &models.ManualInventoryResult{
			Inventory: models.InventoryRecord{CampID: campID, ItemName: itemName, Quantity: quantity, LastUpdated: at},
		}

		var req models.CampRequest
		find := tx.Rebind(`SELECT ` + requestColumns + ` FROM camp_requests
		WHERE camp_id = ? AND item_name = ? AND status = 'Pending'
		ORDER BY created_at, id LIMIT 1`)
		err := tx.GetContext(ctx, &req, find, campID, itemName)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find open request: %w", err)
		}

		req.RemainingQty = req.RequiredQty - quantity
		if req.RemainingQty < 0 {
			req.RemainingQty = 0
		}
		req.Status = models.RequestStatusPending
		if req.RemainingQty == 0 {
			req.Status = models.RequestStatusFulfilled
		}
		req.UpdatedAt = at
		sync := tx.Rebind(`UPDATE camp_requests SET remaining_qty = ?, status = ?, updated_at = ? WHERE id = ?`)
		if _, err := tx.ExecContext(ctx, sync, req.RemainingQty, req.Status, at, req.ID); err != nil {
			return fmt.Errorf("sync request: %w", err)
		}
		result.Request = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolvePending moves a Pending donation to status. A donation that is not
// Pending, including one resolved concurrently, yields *DonationStateError.
func resolvePending(ctx context.Context, tx *sqlx.Tx, donationID string, status models.DonationStatus, receivedAt *time.Time) (*models.DonationRecord, error) {
	var d models.DonationRecord
	query := tx.Rebind(`SELECT ` + donationColumns + ` FROM donation_records WHERE id = ?`)
	if err := tx.GetContext(ctx, &d, query, donationID); err != nil {
		return nil, err
	}
	if d.Status != models.DonationStatusPending {
		return nil, &DonationStateError{Status: d.Status}
	}

	update := tx.Rebind(`UPDATE donation_records SET status = ?, received_at = ? WHERE id = ? AND status = 'Pending'`)
	res, err := tx.ExecContext(ctx, update, status, receivedAt, donationID)
	if err != nil {
		return nil, fmt.Errorf("resolve donation: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("resolve donation rows: %w", err)
	}
	if rows == 0 {
		var current models.DonationStatus
		if err := tx.GetContext(ctx, &current, tx.Rebind(`SELECT status FROM donation_records WHERE id = ?`), donationID); err != nil {
			return nil, fmt.Errorf("reload donation: %w", err)
		}
		return nil, &DonationStateError{Status: current}
	}
	return &d, nil
}

func currentStock(ctx context.Context, tx *sqlx.Tx, campID, itemName string) (int, error) {
	var stock int
	query := tx.Rebind(`SELECT quantity FROM inventory WHERE camp_id = ? AND item_name = ?`)
	err := tx.GetContext(ctx, &stock, query, campID, itemName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read inventory: %w", err)
	}
	return stock, nil
}
