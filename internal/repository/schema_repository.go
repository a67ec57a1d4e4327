package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SchemaRepository probes for the schema objects the scan workflow depends on.
type SchemaRepository struct {
	db *sqlx.DB
}

// NewSchemaRepository constructs a SchemaRepository.
func NewSchemaRepository(db *sqlx.DB) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// Probe touches each required table with a zero-row select. A missing object
// surfaces as the driver's undefined-table error for the caller to classify.
func (r *SchemaRepository) Probe(ctx context.Context) error {
	for _, table := range []string{"students", "attendance_records", "notification_logs"} {
		query := fmt.Sprintf("SELECT id FROM %s LIMIT 0", table)
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("probe %s: %w", table, err)
		}
	}
	return nil
}
