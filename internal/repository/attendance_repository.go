package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/pkg/database"
)

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// dayWindow returns [local midnight, next local midnight) for the instant.
func dayWindow(at time.Time) (time.Time, time.Time) {
	start := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	return start, start.AddDate(0, 0, 1)
}

// HasScannedToday reports whether the student already has an attendance record
// within the calendar day of "at". The primary path delegates to the
// has_scanned_today SQL function; when that function or the attendance table
// has not been created yet, it falls back to the equivalent two-step lookup.
// Other primary-path errors propagate to the caller.
func (r *AttendanceRepository) HasScannedToday(ctx context.Context, lrn string, at time.Time) (bool, error) {
	var scanned bool
	err := r.db.GetContext(ctx, &scanned, "SELECT has_scanned_today($1)", lrn)
	if err == nil {
		return scanned, nil
	}
	if !database.IsSchemaMissing(err) {
		return false, fmt.Errorf("has_scanned_today: %w", err)
	}
	return r.hasScannedTodayFallback(ctx, lrn, at)
}

// hasScannedTodayFallback resolves the LRN to a student key and probes the day
// window directly. Lookup failures and empty results count as "not scanned":
// the unique (student, day) index is the authority, so failing open here can
// at worst cost one redundant insert attempt.
func (r *AttendanceRepository) hasScannedTodayFallback(ctx context.Context, lrn string, at time.Time) (bool, error) {
	var studentID string
	if err := r.db.GetContext(ctx, &studentID, "SELECT id FROM students WHERE lrn = $1", lrn); err != nil {
		return false, nil
	}

	start, end := dayWindow(at)
	var exists bool
	const query = `SELECT EXISTS (
        SELECT 1 FROM attendance_records
        WHERE student_id = $1 AND scan_timestamp >= $2 AND scan_timestamp < $3)`
	if err := r.db.GetContext(ctx, &exists, query, studentID, start, end); err != nil {
		return false, nil
	}
	return exists, nil
}

// Insert persists a new attendance record with a server-assigned timestamp and
// returns the stored row. Callers classify unique-violation and missing-schema
// errors via pkg/database helpers.
func (r *AttendanceRepository) Insert(ctx context.Context, studentID, lrn, location string) (*models.AttendanceRecord, error) {
	if location == "" {
		location = models.DefaultScanLocation
	}
	const query = `INSERT INTO attendance_records (id, student_id, lrn, scan_location, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, student_id, lrn, scan_timestamp, scan_location, status, created_at`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, uuid.NewString(), studentID, lrn, location, models.StatusPresent); err != nil {
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	return &record, nil
}

// ListWithStudents returns attendance rows joined with student metadata,
// newest first.
func (r *AttendanceRepository) ListWithStudents(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceWithStudent, error) {
	base := `FROM attendance_records a JOIN students s ON s.id = a.student_id`
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Date != nil {
		start, end := dayWindow(*filter.Date)
		conditions = append(conditions, fmt.Sprintf("a.scan_timestamp >= $%d AND a.scan_timestamp < $%d", len(args)+1, len(args)+2))
		args = append(args, start, end)
	}
	if filter.DateFrom != nil {
		start, _ := dayWindow(*filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("a.scan_timestamp >= $%d", len(args)+1))
		args = append(args, start)
	}
	if filter.DateTo != nil {
		_, end := dayWindow(*filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("a.scan_timestamp < $%d", len(args)+1))
		args = append(args, end)
	}
	if filter.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("s.grade = $%d", len(args)+1))
		args = append(args, filter.Grade)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("s.section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.StudentName != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(s.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.StudentName)+"%")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	query := fmt.Sprintf(`SELECT a.id, a.student_id, a.lrn, a.scan_timestamp, a.scan_location, a.status, a.created_at,
        s.name AS student_name, s.grade, s.section, s.guardian_phone
        %s WHERE %s ORDER BY a.scan_timestamp DESC LIMIT %d`, base, strings.Join(conditions, " AND "), limit)

	var records []models.AttendanceWithStudent
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// CountByLRN returns the number of attendance rows carrying the identifier.
func (r *AttendanceRepository) CountByLRN(ctx context.Context, lrn string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM attendance_records WHERE lrn = $1", lrn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count attendance by lrn: %w", err)
	}
	return total, nil
}
