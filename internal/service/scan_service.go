package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/pkg/database"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
)

var lrnPattern = regexp.MustCompile(`^\d{12}$`)

// ScanOutcome is the terminal state of one scan request.
type ScanOutcome string

const (
	ScanCompleted      ScanOutcome = "completed"
	ScanBadFormat      ScanOutcome = "rejected_bad_format"
	ScanNotFound       ScanOutcome = "rejected_not_found"
	ScanAlreadyScanned ScanOutcome = "rejected_already_scanned"
)

// ScanRequest is one attendance-marking attempt.
type ScanRequest struct {
	LRN      string `json:"lrn"`
	Location string `json:"location"`
}

// ScanResult is the terminal state plus whatever identity the UI can display.
// AlreadyScanned still carries the student so the operator sees who scanned.
type ScanResult struct {
	Outcome    ScanOutcome              `json:"outcome"`
	Message    string                   `json:"message"`
	Student    *models.StudentIdentity  `json:"student,omitempty"`
	Attendance *models.AttendanceRecord `json:"attendance,omitempty"`
}

type scanStudentLookup interface {
	FindByLRN(ctx context.Context, lrn string) (*models.Student, error)
}

type scanAttendanceStore interface {
	HasScannedToday(ctx context.Context, lrn string, at time.Time) (bool, error)
	Insert(ctx context.Context, studentID, lrn, location string) (*models.AttendanceRecord, error)
}

type scanNotifier interface {
	Dispatch(student models.Student, record models.AttendanceRecord)
}

type scanReadiness interface {
	EnsureReady(ctx context.Context) error
}

// ScanService runs the scan workflow: validate, resolve, duplicate-check,
// record, notify. Steps short-circuit in that order; notification outcome
// never influences the result.
type ScanService struct {
	students   scanStudentLookup
	attendance scanAttendanceStore
	notifier   scanNotifier
	readiness  scanReadiness
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// ScanServiceParams groups constructor dependencies.
type ScanServiceParams struct {
	Students   scanStudentLookup
	Attendance scanAttendanceStore
	Notifier   scanNotifier
	Readiness  scanReadiness
	Metrics    *MetricsService
	Logger     *zap.Logger
}

// NewScanService constructs a ScanService.
func NewScanService(params ScanServiceParams) *ScanService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{
		students:   params.Students,
		attendance: params.Attendance,
		notifier:   params.Notifier,
		readiness:  params.Readiness,
		metrics:    params.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Scan processes one attendance-marking attempt. Rejections that the operator
// can act on come back as a ScanResult; setup and storage failures come back
// as errors carrying the taxonomy from pkg/errors.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	if !lrnPattern.MatchString(req.LRN) {
		s.metrics.RecordScan(string(ScanBadFormat))
		return &ScanResult{
			Outcome: ScanBadFormat,
			Message: "Invalid LRN format. Must be 12 digits.",
		}, nil
	}

	if s.readiness != nil {
		if err := s.readiness.EnsureReady(ctx); err != nil {
			s.metrics.RecordScan("error")
			return nil, err
		}
	}

	student, err := s.students.FindByLRN(ctx, req.LRN)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordScan(string(ScanNotFound))
			return &ScanResult{
				Outcome: ScanNotFound,
				Message: "Student not found. Please check the LRN.",
			}, nil
		}
		s.metrics.RecordScan("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}
	identity := student.Identity()

	// Fast-path duplicate check. The unique (student, day) index behind
	// Insert remains the authority when two scans race past this point.
	scanned, err := s.attendance.HasScannedToday(ctx, student.LRN, s.now())
	if err != nil {
		s.metrics.RecordScan("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check today's attendance")
	}
	if scanned {
		s.metrics.RecordScan(string(ScanAlreadyScanned))
		return s.alreadyScanned(student.Name, identity), nil
	}

	record, err := s.attendance.Insert(ctx, student.ID, student.LRN, req.Location)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, "attendance_one_per_day"):
			s.metrics.RecordScan(string(ScanAlreadyScanned))
			return s.alreadyScanned(student.Name, identity), nil
		case database.IsSchemaMissing(err):
			s.metrics.RecordScan("error")
			return nil, appErrors.Clone(appErrors.ErrSetupIncomplete, "")
		default:
			s.metrics.RecordScan("error")
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
		}
	}

	s.notifier.Dispatch(*student, *record)

	s.metrics.RecordScan(string(ScanCompleted))
	s.logger.Info("attendance recorded",
		zap.String("lrn", student.LRN),
		zap.String("location", record.ScanLocation),
		zap.Time("scanned_at", record.ScanTimestamp))

	return &ScanResult{
		Outcome:    ScanCompleted,
		Message:    fmt.Sprintf("%s marked as present successfully!", student.Name),
		Student:    &identity,
		Attendance: record,
	}, nil
}

func (s *ScanService) alreadyScanned(name string, identity models.StudentIdentity) *ScanResult {
	return &ScanResult{
		Outcome: ScanAlreadyScanned,
		Message: fmt.Sprintf("%s has already been marked present today.", name),
		Student: &identity,
	}
}
