package sms

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/scanpoint/attendance-api/pkg/config"
)

// ProviderMock is the deterministic transport used in development and tests.
const ProviderMock = "mock"

func init() {
	Register(ProviderMock, func(cfg config.SMSConfig) (Transport, error) {
		return &MockTransport{}, nil
	})
}

// MockTransport accepts every message and assigns sequential message ids.
type MockTransport struct {
	counter atomic.Uint64
}

// Name implements Transport.
func (t *MockTransport) Name() string { return ProviderMock }

// Send implements Transport.
func (t *MockTransport) Send(ctx context.Context, to, body string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if to == "" {
		return nil, fmt.Errorf("no destination number")
	}
	return &Result{MessageID: fmt.Sprintf("mock-%d", t.counter.Add(1))}, nil
}
