package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanpoint/attendance-api/pkg/config"
)

func TestRegistryBuildsMock(t *testing.T) {
	transport, err := New(config.SMSConfig{Provider: ProviderMock})
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, transport.Name())
}

func TestRegistryUnknownProvider(t *testing.T) {
	_, err := New(config.SMSConfig{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestProvidersSorted(t *testing.T) {
	names := Providers()
	assert.Contains(t, names, ProviderMock)
	assert.Contains(t, names, ProviderSemaphore)
	assert.IsIncreasing(t, names)
}

func TestMockTransportSequentialIDs(t *testing.T) {
	transport := &MockTransport{}

	first, err := transport.Send(context.Background(), "09171234567", "hello")
	require.NoError(t, err)
	second, err := transport.Send(context.Background(), "09171234567", "hello again")
	require.NoError(t, err)
	assert.Equal(t, "mock-1", first.MessageID)
	assert.Equal(t, "mock-2", second.MessageID)
}

func TestMockTransportRejectsEmptyDestination(t *testing.T) {
	transport := &MockTransport{}

	_, err := transport.Send(context.Background(), "", "hello")
	assert.Error(t, err)
}

func TestMockTransportHonoursContext(t *testing.T) {
	transport := &MockTransport{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := transport.Send(ctx, "09171234567", "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
