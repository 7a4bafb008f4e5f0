// nascent-nexus - Personal AI assistant system
// Copyright (C) 2025  nascent-nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// Sender delivers one notification to its outbound channel.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// WebhookSender POSTs each notification as JSON to a fixed URL.
type WebhookSender struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewWebhookSender creates a WebhookSender. token, when set, is sent as a
// bearer token.
func NewWebhookSender(url, token string) *WebhookSender {
	return &WebhookSender{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts n. Non-2xx responses are errors so the consumer retries them.
func (s *WebhookSender) Send(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ID)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// LogSender writes deliveries to the process log.
type LogSender struct{}

// Send logs n.
func (LogSender) Send(_ context.Context, n models.Notification) error {
	log.Printf("relay: [%s] to user %s: %s: %s", n.Type, n.UserID, n.Title, n.Message)
	return nil
}
