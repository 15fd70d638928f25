package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sahaya-relief/camp-api/internal/models"
)

const campColumns = `camp_id, camp_name, manager_name, email, password_hash, location, contact_number, created_at, updated_at`

// CampRepository persists camps and their manager credentials.
type CampRepository struct {
	db *sqlx.DB
}

// NewCampRepository constructs the repository.
func NewCampRepository(db *sqlx.DB) *CampRepository {
	return &CampRepository{db: db}
}

// Create inserts a camp. Duplicate ids or emails surface as unique violations.
func (r *CampRepository) Create(ctx context.Context, camp *models.CampManager) error {
	const query = `INSERT INTO camp_managers (` + campColumns + `)
	VALUES (:camp_id, :camp_name, :manager_name, :email, :password_hash, :location, :contact_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, camp); err != nil {
		return fmt.Errorf("create camp: %w", err)
	}
	return nil
}

// FindByID fetches a camp by its identifier.
func (r *CampRepository) FindByID(ctx context.Context, campID string) (*models.CampManager, error) {
	query := r.db.Rebind(`SELECT ` + campColumns + ` FROM camp_managers WHERE camp_id = ?`)
	var camp models.CampManager
	if err := r.db.GetContext(ctx, &camp, query, campID); err != nil {
		return nil, err
	}
	return &camp, nil
}

// FindByEmail fetches a camp by its manager's email, case-insensitively.
func (r *CampRepository) FindByEmail(ctx context.Context, email string) (*models.CampManager, error) {
	query := r.db.Rebind(`SELECT ` + campColumns + ` FROM camp_managers WHERE LOWER(email) = ?`)
	var camp models.CampManager
	if err := r.db.GetContext(ctx, &camp, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, err
	}
	return &camp, nil
}

// List returns all camps ordered by identifier.
func (r *CampRepository) List(ctx context.Context) ([]models.CampManager, error) {
	const query = `SELECT ` + campColumns + ` FROM camp_managers ORDER BY camp_id`
	var camps []models.CampManager
	if err := r.db.SelectContext(ctx, &camps, query); err != nil {
		return nil, fmt.Errorf("list camps: %w", err)
	}
	return camps, nil
}

// Delete removes a camp. Returns sql.ErrNoRows when nothing matched.
func (r *CampRepository) Delete(ctx context.Context, campID string) error {
	query := r.db.Rebind(`DELETE FROM camp_managers WHERE camp_id = ?`)
	result, err := r.db.ExecContext(ctx, query, campID)
	if err != nil {
		return fmt.Errorf("delete camp: %w", err)
	}
	return expectAffected(result, "delete camp")
}

// Count returns the number of registered camps.
func (r *CampRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM camp_managers`); err != nil {
		return 0, fmt.Errorf("count camps: %w", err)
	}
	return total, nil
}
