package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/scanpoint/attendance-api/internal/models"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
	"github.com/scanpoint/attendance-api/pkg/export"
)

type reportAggregates interface {
	DayCounts(ctx context.Context, at time.Time) (present int, scans int, err error)
	GradeBreakdown(ctx context.Context, at time.Time) ([]models.GradeAttendance, error)
}

type studentCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type exportLister interface {
	ListWithStudents(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceWithStudent, error)
}

// ReportService derives counts and rates from stored attendance records.
type ReportService struct {
	aggregates reportAggregates
	students   studentCounter
	attendance exportLister
	cache      *CacheService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
	now        func() time.Time
	trendDays  int
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Aggregates reportAggregates
	Students   studentCounter
	Attendance exportLister
	Cache      *CacheService
	Logger     *zap.Logger
	TrendDays  int
}

// NewReportService constructs a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	trendDays := params.TrendDays
	if trendDays <= 0 {
		trendDays = 7
	}
	return &ReportService{
		aggregates: params.Aggregates,
		students:   params.Students,
		attendance: params.Attendance,
		cache:      params.Cache,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		now:        time.Now,
		trendDays:  trendDays,
	}
}

// Stats summarises one calendar day. Zero date means today.
func (s *ReportService) Stats(ctx context.Context, date time.Time) (*models.AttendanceStats, error) {
	if date.IsZero() {
		date = s.now()
	}
	cacheKey := fmt.Sprintf("reports:stats:%s", date.Format("2006-01-02"))
	var cached models.AttendanceStats
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	total, err := s.students.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	present, scans, err := s.aggregates.DayCounts(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate attendance")
	}

	stats := &models.AttendanceStats{
		TotalStudents:   total,
		PresentToday:    present,
		AbsentToday:     total - present,
		AttendanceRate:  rate(present, total),
		TotalScansToday: scans,
	}
	_ = s.cache.Set(ctx, cacheKey, stats, 0)
	return stats, nil
}

// ByGrade breaks the day's attendance down per grade.
func (s *ReportService) ByGrade(ctx context.Context, date time.Time) ([]models.GradeAttendance, error) {
	if date.IsZero() {
		date = s.now()
	}
	rows, err := s.aggregates.GradeBreakdown(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate grades")
	}
	for i := range rows {
		rows[i].AttendanceRate = rate(rows[i].PresentStudents, rows[i].TotalStudents)
	}
	return rows, nil
}

// Daily returns the recent-days attendance trend, oldest day first.
func (s *ReportService) Daily(ctx context.Context, days int) ([]models.DailyAttendance, error) {
	if days <= 0 || days > 90 {
		days = s.trendDays
	}
	total, err := s.students.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	results := make([]models.DailyAttendance, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := s.now().AddDate(0, 0, -i)
		present, scans, err := s.aggregates.DayCounts(ctx, day)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate attendance")
		}
		results = append(results, models.DailyAttendance{
			Date:           time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
			TotalScans:     scans,
			UniqueStudents: present,
			AttendanceRate: rate(present, total),
		})
	}
	return results, nil
}

var exportHeaders = []string{"Date", "Time", "Student Name", "LRN", "Grade", "Section", "Location", "Status", "Guardian Phone"}

// ExportCSV renders the filtered attendance set as CSV bytes.
func (s *ReportService) ExportCSV(ctx context.Context, filter models.AttendanceFilter) ([]byte, error) {
	dataset, err := s.exportDataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

// ExportPDF renders the filtered attendance set as a tabular PDF.
func (s *ReportService) ExportPDF(ctx context.Context, filter models.AttendanceFilter) ([]byte, error) {
	dataset, err := s.exportDataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Attendance Report %s", s.now().Format("2006-01-02"))
	payload, err := s.pdf.Render(*dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, nil
}

func (s *ReportService) exportDataset(ctx context.Context, filter models.AttendanceFilter) (*export.Dataset, error) {
	if filter.Limit <= 0 {
		filter.Limit = 1000
	}
	records, err := s.attendance.ListWithStudents(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance for export")
	}

	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		guardian := ""
		if record.GuardianPhone != nil {
			guardian = *record.GuardianPhone
		}
		rows = append(rows, map[string]string{
			"Date":           record.ScanTimestamp.Format("2006-01-02"),
			"Time":           record.ScanTimestamp.Format("3:04:05 PM"),
			"Student Name":   record.StudentName,
			"LRN":            record.LRN,
			"Grade":          record.Grade,
			"Section":        record.Section,
			"Location":       record.ScanLocation,
			"Status":         record.Status,
			"Guardian Phone": guardian,
		})
	}
	return &export.Dataset{Headers: exportHeaders, Rows: rows}, nil
}

func rate(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*10000) / 100
}
