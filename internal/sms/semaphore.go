package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/scanpoint/attendance-api/pkg/config"
)

// ProviderSemaphore is the hosted SMS gateway used in production.
const ProviderSemaphore = "semaphore"

func init() {
	Register(ProviderSemaphore, func(cfg config.SMSConfig) (Transport, error) {
		return NewSemaphoreTransport(cfg)
	})
}

// SemaphoreTransport delivers messages through the Semaphore HTTP API.
type SemaphoreTransport struct {
	apiKey     string
	senderName string
	gatewayURL string
	client     *http.Client
}

// NewSemaphoreTransport validates credentials and builds the transport.
func NewSemaphoreTransport(cfg config.SMSConfig) (*SemaphoreTransport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("semaphore transport requires SMS_API_KEY")
	}
	gatewayURL := cfg.GatewayURL
	if gatewayURL == "" {
		gatewayURL = "https://api.semaphore.co/api/v4/messages"
	}
	return &SemaphoreTransport{
		apiKey:     cfg.APIKey,
		senderName: cfg.SenderName,
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: cfg.SendTimeout},
	}, nil
}

// Name implements Transport.
func (t *SemaphoreTransport) Name() string { return ProviderSemaphore }

type semaphoreMessage struct {
	MessageID json.Number `json:"message_id"`
	Status    string      `json:"status"`
}

// Send implements Transport. The gateway answers with an array of accepted
// messages; anything else is treated as a failed attempt.
func (t *SemaphoreTransport) Send(ctx context.Context, to, body string) (*Result, error) {
	form := url.Values{}
	form.Set("apikey", t.apiKey)
	form.Set("number", to)
	form.Set("message", body)
	if t.senderName != "" {
		form.Set("sendername", t.senderName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.gatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var messages []semaphoreMessage
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("gateway accepted no messages: %s", strings.TrimSpace(string(payload)))
	}
	return &Result{MessageID: messages[0].MessageID.String()}, nil
}
