package service

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/scanpoint/attendance-api/pkg/database"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
)

type schemaProbe interface {
	Probe(ctx context.Context) error
}

// ReadinessService verifies the schema exists before write paths run. A
// successful probe is remembered for the process lifetime; concurrent callers
// share one in-flight probe instead of racing duplicate checks.
type ReadinessService struct {
	probe  schemaProbe
	group  singleflight.Group
	ready  atomic.Bool
	logger *zap.Logger
}

// NewReadinessService constructs a ReadinessService.
func NewReadinessService(probe schemaProbe, logger *zap.Logger) *ReadinessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadinessService{probe: probe, logger: logger}
}

// EnsureReady returns nil once the schema has been verified. Missing schema
// objects map to ErrSetupIncomplete so callers can render remediation text.
func (s *ReadinessService) EnsureReady(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}

	_, err, _ := s.group.Do("schema", func() (interface{}, error) {
		if s.ready.Load() {
			return nil, nil
		}
		if err := s.probe.Probe(ctx); err != nil {
			if database.IsSchemaMissing(err) {
				s.logger.Warn("schema objects missing", zap.Error(err))
				return nil, appErrors.Clone(appErrors.ErrSetupIncomplete, "")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "database not reachable")
		}
		s.ready.Store(true)
		s.logger.Info("schema verified")
		return nil, nil
	})
	return err
}
