// Package sms provides the SMS gateway client and credential resolution.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/infrastructure/config"
)

// HTTPGateway sends SMS through the provider's REST API. Every call carries a
// bounded timeout so a slow provider cannot stall the event processor.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPGateway creates a gateway client from configuration
func NewHTTPGateway(cfg config.SMSConfig, logger *zap.Logger) *HTTPGateway {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type sendRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type sendResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send delivers one SMS. A non-2xx response or transport failure is returned
// as an error for the caller to log; the gateway itself never retries.
func (g *HTTPGateway) Send(ctx context.Context, creds notification.Credentials, to, text string) error {
	if creds.IsZero() {
		return fmt.Errorf("sms: no credentials")
	}
	if to == "" {
		return fmt.Errorf("sms: recipient is required")
	}

	body, err := json.Marshal(sendRequest{
		From: creds.SenderNumber,
		To:   to,
		Text: text,
	})
	if err != nil {
		return fmt.Errorf("sms: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", creds.APIKey)
	req.Header.Set("X-API-Secret", creds.APISecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var providerResp sendResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err := json.Unmarshal(raw, &providerResp); err == nil && providerResp.Message != "" {
			return fmt.Errorf("sms: provider rejected message (%d): %s", resp.StatusCode, providerResp.Message)
		}
		return fmt.Errorf("sms: provider returned status %d", resp.StatusCode)
	}

	return nil
}

var _ notification.Gateway = (*HTTPGateway)(nil)

// ConsoleGateway logs messages instead of sending them. Used in development
// and when SMS is disabled in configuration.
type ConsoleGateway struct {
	logger *zap.Logger
}

// NewConsoleGateway creates a logging-only gateway
func NewConsoleGateway(logger *zap.Logger) *ConsoleGateway {
	return &ConsoleGateway{logger: logger}
}

// Send logs the message and reports success
func (g *ConsoleGateway) Send(_ context.Context, _ notification.Credentials, to, text string) error {
	g.logger.Info("sms (console gateway)",
		zap.String("to", to),
		zap.String("text", text))
	return nil
}

var _ notification.Gateway = (*ConsoleGateway)(nil)
