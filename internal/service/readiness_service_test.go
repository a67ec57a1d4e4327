package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
)

type mockProbe struct {
	err   error
	calls atomic.Int64
}

func (m *mockProbe) Probe(ctx context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestEnsureReadyProbesOnce(t *testing.T) {
	probe := &mockProbe{}
	svc := NewReadinessService(probe, nil)

	require.NoError(t, svc.EnsureReady(context.Background()))
	require.NoError(t, svc.EnsureReady(context.Background()))
	require.NoError(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, int64(1), probe.calls.Load())
}

func TestEnsureReadySchemaMissing(t *testing.T) {
	probe := &mockProbe{err: &pq.Error{Code: "42P01"}}
	svc := NewReadinessService(probe, nil)

	err := svc.EnsureReady(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSetupIncomplete.Code, appErr.Code)
}

func TestEnsureReadyRetriesAfterFailure(t *testing.T) {
	probe := &mockProbe{err: &pq.Error{Code: "42P01"}}
	svc := NewReadinessService(probe, nil)

	require.Error(t, svc.EnsureReady(context.Background()))

	// Schema created between calls: the next probe should succeed and stick.
	probe.err = nil
	require.NoError(t, svc.EnsureReady(context.Background()))
	require.NoError(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, int64(2), probe.calls.Load())
}

func TestEnsureReadyUnreachableDatabase(t *testing.T) {
	probe := &mockProbe{err: errors.New("connection refused")}
	svc := NewReadinessService(probe, nil)

	err := svc.EnsureReady(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErr.Code)
}

func TestEnsureReadyConcurrentCallersShareProbe(t *testing.T) {
	probe := &mockProbe{}
	svc := NewReadinessService(probe, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.EnsureReady(context.Background()))
		}()
	}
	wg.Wait()

	// Singleflight may admit a couple of rounds but never one probe per caller.
	assert.LessOrEqual(t, probe.calls.Load(), int64(2))
}
