package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sahaya-relief/camp-api/internal/models"
)

const disasterColumns = `disaster_id, disaster_name, location, latitude, longitude, date_occurred, disaster_type,
	severity, description, affected_population, status, created_at, updated_at`

// DisasterRepository persists registered disaster events.
type DisasterRepository struct {
	db *sqlx.DB
}

// NewDisasterRepository constructs the repository.
func NewDisasterRepository(db *sqlx.DB) *DisasterRepository {
	return &DisasterRepository{db: db}
}

// Create inserts a disaster.
func (r *DisasterRepository) Create(ctx context.Context, d *models.Disaster) error {
	const query = `INSERT INTO disasters (` + disasterColumns + `)
	VALUES (:disaster_id, :disaster_name, :location, :latitude, :longitude, :date_occurred, :disaster_type,
	:severity, :description, :affected_population, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("create disaster: %w", err)
	}
	return nil
}

// FindByID fetches a disaster.
func (r *DisasterRepository) FindByID(ctx context.Context, id string) (*models.Disaster, error) {
	query := r.db.Rebind(`SELECT ` + disasterColumns + ` FROM disasters WHERE disaster_id = ?`)
	var d models.Disaster
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns disasters, most recent first.
func (r *DisasterRepository) List(ctx context.Context) ([]models.Disaster, error) {
	const query = `SELECT ` + disasterColumns + ` FROM disasters ORDER BY date_occurred DESC, disaster_id DESC`
	var disasters []models.Disaster
	if err := r.db.SelectContext(ctx, &disasters, query); err != nil {
		return nil, fmt.Errorf("list disasters: %w", err)
	}
	return disasters, nil
}

// Update replaces every mutable column. The identifier and created_at never change.
func (r *DisasterRepository) Update(ctx context.Context, d *models.Disaster) error {
	const query = `UPDATE disasters SET disaster_name = :disaster_name, location = :location, latitude = :latitude,
	longitude = :longitude, date_occurred = :date_occurred, disaster_type = :disaster_type, severity = :severity,
	description = :description, affected_population = :affected_population, status = :status, updated_at = :updated_at
	WHERE disaster_id = :disaster_id`
	result, err := r.db.NamedExecContext(ctx, query, d)
	if err != nil {
		return fmt.Errorf("update disaster: %w", err)
	}
	return expectAffected(result, "update disaster")
}

// Delete removes a disaster.
func (r *DisasterRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM disasters WHERE disaster_id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete disaster: %w", err)
	}
	return expectAffected(result, "delete disaster")
}

// CountByStatus counts disasters in the given state.
func (r *DisasterRepository) CountByStatus(ctx context.Context, status models.DisasterStatus) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM disasters WHERE status = ?`)
	var total int
	if err := r.db.GetContext(ctx, &total, query, status); err != nil {
		return 0, fmt.Errorf("count disasters: %w", err)
	}
	return total, nil
}
