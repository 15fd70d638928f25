package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahaya-relief/camp-api/internal/models"
)

const inmateColumns = `id, camp_id, name, age, gender, contact_number, aadhar_number, address, family_members,
	medical_conditions, status, registered_at`

// InmateRepository persists camp residents.
type InmateRepository struct {
	db *sqlx.DB
}

// NewInmateRepository constructs the repository.
func NewInmateRepository(db *sqlx.DB) *InmateRepository {
	return &InmateRepository{db: db}
}

// Create inserts a resident.
func (r *InmateRepository) Create(ctx context.Context, inmate *models.Inmate) error {
	if inmate.ID == "" {
		inmate.ID = uuid.NewString()
	}
	const query = `INSERT INTO camp_inmates (` + inmateColumns + `)
	VALUES (:id, :camp_id, :name, :age, :gender, :contact_number, :aadhar_number, :address, :family_members,
	:medical_conditions, :status, :registered_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inmate); err != nil {
		return fmt.Errorf("create inmate: %w", err)
	}
	return nil
}

// FindByID fetches a resident.
func (r *InmateRepository) FindByID(ctx context.Context, id string) (*models.Inmate, error) {
	query := r.db.Rebind(`SELECT ` + inmateColumns + ` FROM camp_inmates WHERE id = ?`)
	var inmate models.Inmate
	if err := r.db.GetContext(ctx, &inmate, query, id); err != nil {
		return nil, err
	}
	return &inmate, nil
}

// ListByCamp returns residents of a camp, newest first. An empty status lists all.
func (r *InmateRepository) ListByCamp(ctx context.Context, campID string, status models.InmateStatus) ([]models.Inmate, error) {
	query := `SELECT ` + inmateColumns + ` FROM camp_inmates WHERE camp_id = ?`
	args := []interface{}{campID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY registered_at DESC`

	var inmates []models.Inmate
	if err := r.db.SelectContext(ctx, &inmates, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list inmates: %w", err)
	}
	return inmates, nil
}

// Update replaces the mutable columns of a resident.
func (r *InmateRepository) Update(ctx context.Context, inmate *models.Inmate) error {
	const query = `UPDATE camp_inmates SET name = :name, age = :age, gender = :gender, contact_number = :contact_number,
	address = :address, family_members = :family_members, medical_conditions = :medical_conditions, status = :status
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, inmate)
	if err != nil {
		return fmt.Errorf("update inmate: %w", err)
	}
	return expectAffected(result, "update inmate")
}

// Delete removes a resident.
func (r *InmateRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM camp_inmates WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete inmate: %w", err)
	}
	return expectAffected(result, "delete inmate")
}

// CountActive counts active residents across all camps.
func (r *InmateRepository) CountActive(ctx context.Context) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM camp_inmates WHERE status = ?`)
	var total int
	if err := r.db.GetContext(ctx, &total, query, models.InmateStatusActive); err != nil {
		return 0, fmt.Errorf("count inmates: %w", err)
	}
	return total, nil
}
