package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahaya-relief/camp-api/internal/models"
)

const requestColumns = `id, camp_id, camp_name, item_name, unit, category, priority, required_qty, remaining_qty, status, created_at, updated_at`

// CampRequestRepository reads and creates supply requests. Quantity changes
// after creation belong to LedgerRepository.
type CampRequestRepository struct {
	db *sqlx.DB
}

// NewCampRequestRepository constructs the repository.
func NewCampRequestRepository(db *sqlx.DB) *CampRequestRepository {
	return &CampRequestRepository{db: db}
}

// Create inserts a new request with its remaining quantity equal to the requirement.
func (r *CampRequestRepository) Create(ctx context.Context, req *models.CampRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.UpdatedAt = req.CreatedAt
	req.RemainingQty = req.RequiredQty
	req.Status = models.RequestStatusPending
	const query = `INSERT INTO camp_requests (` + requestColumns + `)
	VALUES (:id, :camp_id, :camp_name, :item_name, :unit, :category, :priority, :required_qty, :remaining_qty, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create camp request: %w", err)
	}
	return nil
}

// FindByID fetches a request.
func (r *CampRequestRepository) FindByID(ctx context.Context, id string) (*models.CampRequest, error) {
	query := r.db.Rebind(`SELECT ` + requestColumns + ` FROM camp_requests WHERE id = ?`)
	var req models.CampRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns requests matching filter, highest priority and oldest first.
func (r *CampRequestRepository) List(ctx context.Context, filter models.CampRequestFilter) ([]models.CampRequest, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + requestColumns + ` FROM camp_requests`)

	args := make([]interface{}, 0, 4)
	conditions := make([]string, 0, 4)
	if filter.CampID != "" {
		conditions = append(conditions, "camp_id = ?")
		args = append(args, filter.CampID)
	}
	if filter.Category != "" {
		conditions = append(conditions, "LOWER(category) = ?")
		args = append(args, strings.ToLower(filter.Category))
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(` ORDER BY CASE priority WHEN 'Critical' THEN 0 WHEN 'High' THEN 1 WHEN 'Medium' THEN 2 ELSE 3 END, created_at`)

	var requests []models.CampRequest
	if err := r.db.SelectContext(ctx, &requests, r.db.Rebind(builder.String()), args...); err != nil {
		return nil, fmt.Errorf("list camp requests: %w", err)
	}
	return requests, nil
}

// CountByStatus returns request counts keyed by status.
func (r *CampRequestRepository) CountByStatus(ctx context.Context) (map[models.RequestStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM camp_requests GROUP BY status`
	var rows []struct {
		Status models.RequestStatus `db:"status"`
		Total  int                  `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count camp requests: %w", err)
	}
	counts := make(map[models.RequestStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
