package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/pkg/database"
)

func TestAttendanceRepositoryHasScannedToday(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT has_scanned_today($1)")).
		WithArgs("123456789012").
		WillReturnRows(sqlmock.NewRows([]string{"has_scanned_today"}).AddRow(true))

	scanned, err := repo.HasScannedToday(context.Background(), "123456789012", time.Now())
	require.NoError(t, err)
	assert.True(t, scanned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryHasScannedTodayPropagatesQueryError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT has_scanned_today($1)")).
		WithArgs("123456789012").
		WillReturnError(&pq.Error{Code: "57014"})

	_, err := repo.HasScannedToday(context.Background(), "123456789012", time.Now())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryHasScannedTodayFallbackWhenFunctionMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT has_scanned_today($1)")).
		WithArgs("123456789012").
		WillReturnError(&pq.Error{Code: "42883"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE lrn = $1")).
		WithArgs("123456789012").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s-1"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("s-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	scanned, err := repo.HasScannedToday(context.Background(), "123456789012", time.Now())
	require.NoError(t, err)
	assert.True(t, scanned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryHasScannedTodayFallbackFailsOpen(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT has_scanned_today($1)")).
		WithArgs("123456789012").
		WillReturnError(&pq.Error{Code: "42P01"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE lrn = $1")).
		WithArgs("123456789012").
		WillReturnError(sql.ErrNoRows)

	scanned, err := repo.HasScannedToday(context.Background(), "123456789012", time.Now())
	require.NoError(t, err)
	assert.False(t, scanned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "lrn", "scan_timestamp", "scan_location", "status", "created_at"}).
		AddRow("a-1", "s-1", "123456789012", now, "School Gate", "Present", now)
	mock.ExpectQuery("INSERT INTO attendance_records").
		WithArgs(sqlmock.AnyArg(), "s-1", "123456789012", "School Gate", "Present").
		WillReturnRows(rows)

	record, err := repo.Insert(context.Background(), "s-1", "123456789012", "")
	require.NoError(t, err)
	assert.Equal(t, "a-1", record.ID)
	assert.Equal(t, models.DefaultScanLocation, record.ScanLocation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryInsertDuplicateDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("INSERT INTO attendance_records").
		WithArgs(sqlmock.AnyArg(), "s-1", "123456789012", "School Gate", "Present").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "attendance_one_per_day"})

	_, err := repo.Insert(context.Background(), "s-1", "123456789012", "School Gate")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err, "attendance_one_per_day"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListWithStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "lrn", "scan_timestamp", "scan_location", "status", "created_at", "student_name", "grade", "section", "guardian_phone"}).
		AddRow("a-1", "s-1", "123456789012", now, "School Gate", "Present", now, "Juan Dela Cruz", "7", "A", "09171234567")
	mock.ExpectQuery("SELECT a.id, a.student_id, a.lrn").
		WillReturnRows(rows)

	records, err := repo.ListWithStudents(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Juan Dela Cruz", records[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListWithStudentsDateFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 28, 15, 4, 5, 0, time.Local)
	start := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT a.id, a.student_id, a.lrn").
		WithArgs(start, start.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "lrn", "scan_timestamp", "scan_location", "status", "created_at", "student_name", "grade", "section", "guardian_phone"}))

	records, err := repo.ListWithStudents(context.Background(), models.AttendanceFilter{Date: &day})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCountByLRN(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records WHERE lrn = $1")).
		WithArgs("123456789012").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.CountByLRN(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
