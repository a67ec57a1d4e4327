package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/pkg/database"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
)

type attendanceLister interface {
	ListWithStudents(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceWithStudent, error)
}

// AttendanceService serves the recent-scans listing.
type AttendanceService struct {
	repo   attendanceLister
	logger *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceLister, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, logger: logger}
}

// List returns attendance records with student metadata, newest first.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceWithStudent, error) {
	records, err := s.repo.ListWithStudents(ctx, filter)
	if err != nil {
		if database.IsSchemaMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrSetupIncomplete, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}
