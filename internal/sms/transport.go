package sms

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/scanpoint/attendance-api/pkg/config"
)

// Result carries the provider's acknowledgement for a delivered message.
type Result struct {
	MessageID string
}

// Transport sends a message body to a single destination number. A non-nil
// error means the attempt failed; callers record it and move on.
type Transport interface {
	Name() string
	Send(ctx context.Context, to, body string) (*Result, error)
}

// Factory builds a transport from configuration.
type Factory func(cfg config.SMSConfig) (Transport, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a transport constructor available under the provider name.
// New providers plug in here instead of extending a conditional.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New builds the transport selected by cfg.Provider.
func New(cfg config.SMSConfig) (Transport, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown sms provider %q (registered: %v)", cfg.Provider, Providers())
	}
	return factory(cfg)
}

// Providers lists the registered provider names.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
