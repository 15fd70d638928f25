package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Counter names used for human readable identifiers.
const (
	SequenceCamp     = "CAMP"
	SequenceDisaster = "DIS"
)

// SequenceRepository allocates monotonically increasing identifiers from
// the id_counters table. Allocation is a single upsert, so concurrent callers
// never receive the same value.
type SequenceRepository struct {
	db *sqlx.DB
}

// NewSequenceRepository constructs the repository.
func NewSequenceRepository(db *sqlx.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next increments the named counter and returns its new value.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	query := r.db.Rebind(`INSERT INTO id_counters (name, value) VALUES (?, 1)
	ON CONFLICT (name) DO UPDATE SET value = id_counters.value + 1
	RETURNING value`)
	var value int64
	if err := r.db.QueryRowxContext(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	return value, nil
}

// NextID returns the next identifier for prefix, e.g. CAMP001. Values past
// 999 simply grow wider.
func (r *SequenceRepository) NextID(ctx context.Context, prefix string) (string, error) {
	value, err := r.Next(ctx, prefix)
	if err != nil {
		return "", err
	}
	return FormatID(prefix, value), nil
}

// FormatID zero-pads value to three digits after prefix.
func FormatID(prefix string, value int64) string {
	return fmt.Sprintf("%s%03d", prefix, value)
}
