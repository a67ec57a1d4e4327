package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanpoint/attendance-api/internal/models"
)

type mockAggregates struct {
	present   int
	scans     int
	breakdown []models.GradeAttendance
	err       error
	dayCalls  int
}

func (m *mockAggregates) DayCounts(ctx context.Context, at time.Time) (int, int, error) {
	m.dayCalls++
	return m.present, m.scans, m.err
}

func (m *mockAggregates) GradeBreakdown(ctx context.Context, at time.Time) ([]models.GradeAttendance, error) {
	return m.breakdown, m.err
}

type mockCounter struct {
	total int
	err   error
}

func (m *mockCounter) CountAll(ctx context.Context) (int, error) {
	return m.total, m.err
}

type mockExportLister struct {
	records    []models.AttendanceWithStudent
	lastFilter models.AttendanceFilter
	err        error
}

func (m *mockExportLister) ListWithStudents(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceWithStudent, error) {
	m.lastFilter = filter
	return m.records, m.err
}

func reportFixture(agg *mockAggregates, counter *mockCounter, lister *mockExportLister) *ReportService {
	return NewReportService(ReportServiceParams{
		Aggregates: agg,
		Students:   counter,
		Attendance: lister,
	})
}

func TestReportStats(t *testing.T) {
	svc := reportFixture(&mockAggregates{present: 18, scans: 19}, &mockCounter{total: 20}, &mockExportLister{})

	stats, err := svc.Stats(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 20, stats.TotalStudents)
	assert.Equal(t, 18, stats.PresentToday)
	assert.Equal(t, 2, stats.AbsentToday)
	assert.Equal(t, 19, stats.TotalScansToday)
	assert.Equal(t, 90.0, stats.AttendanceRate)
}

func TestReportStatsZeroStudents(t *testing.T) {
	svc := reportFixture(&mockAggregates{}, &mockCounter{total: 0}, &mockExportLister{})

	stats, err := svc.Stats(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Zero(t, stats.AttendanceRate)
	assert.Zero(t, stats.AbsentToday)
}

func TestReportStatsRateRounding(t *testing.T) {
	// 1 of 3 present rounds to two decimal places.
	svc := reportFixture(&mockAggregates{present: 1, scans: 1}, &mockCounter{total: 3}, &mockExportLister{})

	stats, err := svc.Stats(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 33.33, stats.AttendanceRate)
}

func TestReportByGrade(t *testing.T) {
	agg := &mockAggregates{breakdown: []models.GradeAttendance{
		{Grade: "7", TotalStudents: 30, PresentStudents: 28},
		{Grade: "8", TotalStudents: 0, PresentStudents: 0},
	}}
	svc := reportFixture(agg, &mockCounter{}, &mockExportLister{})

	rows, err := svc.ByGrade(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 93.33, rows[0].AttendanceRate)
	assert.Zero(t, rows[1].AttendanceRate)
}

func TestReportDailyTrend(t *testing.T) {
	agg := &mockAggregates{present: 10, scans: 11}
	svc := reportFixture(agg, &mockCounter{total: 20}, &mockExportLister{})

	days, err := svc.Daily(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, 5, agg.dayCalls)
	// Oldest first.
	assert.True(t, days[0].Date.Before(days[4].Date))
	assert.Equal(t, 50.0, days[0].AttendanceRate)
}

func TestReportDailyDefaultWindow(t *testing.T) {
	agg := &mockAggregates{}
	svc := reportFixture(agg, &mockCounter{total: 20}, &mockExportLister{})

	days, err := svc.Daily(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, days, 7)
}

func TestReportExportCSV(t *testing.T) {
	guardian := "09171234567"
	lister := &mockExportLister{records: []models.AttendanceWithStudent{{
		AttendanceRecord: models.AttendanceRecord{
			LRN:           "123456789012",
			ScanTimestamp: time.Date(2026, 8, 28, 7, 45, 0, 0, time.Local),
			ScanLocation:  "School Gate",
			Status:        "Present",
		},
		StudentName:   "Juan Dela Cruz",
		Grade:         "7",
		Section:       "A",
		GuardianPhone: &guardian,
	}}}
	svc := reportFixture(&mockAggregates{}, &mockCounter{}, lister)

	payload, err := svc.ExportCSV(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Time,Student Name,LRN,Grade,Section,Location,Status,Guardian Phone", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Juan Dela Cruz")
	assert.Contains(t, lines[1], "123456789012")
	assert.Contains(t, lines[1], "09171234567")
	assert.Equal(t, 1000, lister.lastFilter.Limit)
}

func TestReportExportPDF(t *testing.T) {
	svc := reportFixture(&mockAggregates{}, &mockCounter{}, &mockExportLister{})

	payload, err := svc.ExportPDF(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestReportStatsAggregateError(t *testing.T) {
	svc := reportFixture(&mockAggregates{err: errors.New("boom")}, &mockCounter{total: 10}, &mockExportLister{})

	_, err := svc.Stats(context.Background(), time.Time{})
	assert.Error(t, err)
}
