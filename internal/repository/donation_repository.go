package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sahaya-relief/camp-api/internal/models"
)

const donationColumns = `id, request_id, camp_id, donor_name, item_name, quantity, unit, status, donated_at, received_at`

// DonationRepository serves read-side donation queries and money donations.
// Item donation state changes belong to LedgerRepository.
type DonationRepository struct {
	db *sqlx.DB
}

// NewDonationRepository constructs the repository.
func NewDonationRepository(db *sqlx.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// FindByID fetches a donation record.
func (r *DonationRepository) FindByID(ctx context.Context, id string) (*models.DonationRecord, error) {
	query := r.db.Rebind(`SELECT ` + donationColumns + ` FROM donation_records WHERE id = ?`)
	var d models.DonationRecord
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByCamp returns the camp's donation history, newest first. An empty
// status lists every donation.
func (r *DonationRepository) ListByCamp(ctx context.Context, campID string, status models.DonationStatus) ([]models.DonationRecord, error) {
	query := `SELECT ` + donationColumns + ` FROM donation_records WHERE camp_id = ?`
	args := []interface{}{campID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY donated_at DESC`

	var donations []models.DonationRecord
	if err := r.db.SelectContext(ctx, &donations, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// CountByStatus counts item donations in the given state across all camps.
func (r *DonationRepository) CountByStatus(ctx context.Context, status models.DonationStatus) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM donation_records WHERE status = ?`)
	var total int
	if err := r.db.GetContext(ctx, &total, query, status); err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return total, nil
}

// CreateMoney records a monetary donation.
func (r *DonationRepository) CreateMoney(ctx context.Context, d *models.MoneyDonation) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	const query = `INSERT INTO money_donations (id, donor_id, camp_id, amount, payment_status, donated_at)
	VALUES (:id, :donor_id, :camp_id, :amount, :payment_status, :donated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("create money donation: %w", err)
	}
	return nil
}

// TotalMoney sums every recorded monetary donation.
func (r *DonationRepository) TotalMoney(ctx context.Context) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM money_donations`
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return decimal.Zero, fmt.Errorf("sum money donations: %w", err)
	}
	return total, nil
}
