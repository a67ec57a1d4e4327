package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/scanpoint/attendance-api/internal/models"
)

// NotificationRepository persists the append-only notification log.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert appends one delivery-attempt entry. Entries are never updated.
func (r *NotificationRepository) Insert(ctx context.Context, entry *models.NotificationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notification_logs (id, student_id, phone_number, message, status, provider, message_id, error_detail, sent_at, created_at)
        VALUES (:id, :student_id, :phone_number, :message, :status, :provider, :message_id, :error_detail, :sent_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}

// List returns log entries, newest first.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := fmt.Sprintf(`SELECT id, student_id, phone_number, message, status, provider, message_id, error_detail, sent_at, created_at
        FROM notification_logs WHERE %s ORDER BY created_at DESC LIMIT %d`, strings.Join(conditions, " AND "), limit)

	var entries []models.NotificationLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list notification logs: %w", err)
	}
	return entries, nil
}
