package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scanpoint/attendance-api/internal/models"
)

// ReportRepository runs the read-only aggregates behind the reporting surface.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DayCounts returns the distinct students present and total scans within the
// calendar day of "at".
func (r *ReportRepository) DayCounts(ctx context.Context, at time.Time) (present int, scans int, err error) {
	start, end := dayWindow(at)
	const query = `SELECT COUNT(DISTINCT student_id) AS present, COUNT(*) AS scans
        FROM attendance_records WHERE scan_timestamp >= $1 AND scan_timestamp < $2`
	row := struct {
		Present int `db:"present"`
		Scans   int `db:"scans"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, start, end); err != nil {
		return 0, 0, fmt.Errorf("day counts: %w", err)
	}
	return row.Present, row.Scans, nil
}

// GradeBreakdown returns present/total counts per grade for the day.
func (r *ReportRepository) GradeBreakdown(ctx context.Context, at time.Time) ([]models.GradeAttendance, error) {
	start, end := dayWindow(at)
	const query = `SELECT s.grade,
        COUNT(*) AS total_students,
        COUNT(a.student_id) AS present_students
        FROM students s
        LEFT JOIN (
            SELECT DISTINCT student_id FROM attendance_records
            WHERE scan_timestamp >= $1 AND scan_timestamp < $2
        ) a ON a.student_id = s.id
        GROUP BY s.grade ORDER BY s.grade`
	var rows []models.GradeAttendance
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("grade breakdown: %w", err)
	}
	return rows, nil
}
