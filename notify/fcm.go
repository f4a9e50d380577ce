package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"skin-watcher/models"
)

// DefaultFCMEndpoint is the legacy FCM HTTP send endpoint.
const DefaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

// Notification is the user-visible part of an FCM message.
type Notification struct {
	Title       string `json:"title,omitempty"`
	Body        string `json:"body,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Sound       string `json:"sound,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Color       string `json:"color,omitempty"`
	ClickAction string `json:"click_action,omitempty"`
}

// Message is the legacy FCM request body.
type Message struct {
	To              string            `json:"to,omitempty"`
	RegistrationIDs []string          `json:"registration_ids,omitempty"`
	CollapseKey     string            `json:"collapse_key,omitempty"`
	Priority        string            `json:"priority,omitempty"`
	TimeToLive      *int              `json:"time_to_live,omitempty"`
	DryRun          bool              `json:"dry_run,omitempty"`
	Data            map[string]string `json:"data,omitempty"`
	Notification    *Notification     `json:"notification,omitempty"`
}

type sendResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// FCMConfig configures an FCMClient.
type FCMConfig struct {
	ServerKey      string
	RegistrationID string
	Endpoint       string
	Priority       string
	DryRun         bool
	Timeout        time.Duration
}

// FCMClient sends notifications to a single device through the legacy FCM API.
type FCMClient struct {
	cfg  FCMConfig
	http *http.Client
}

// NewFCMClient creates an FCMClient, filling in the default endpoint and timeout.
func NewFCMClient(cfg FCMConfig) *FCMClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultFCMEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &FCMClient{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// Send delivers one event as a notification.
func (c *FCMClient) Send(ctx context.Context, event models.Event) error {
	return c.SendMessage(ctx, c.message(event))
}

func (c *FCMClient) message(event models.Event) *Message {
	return &Message{
		To:       c.cfg.RegistrationID,
		Priority: c.cfg.Priority,
		DryRun:   c.cfg.DryRun,
		Data: map[string]string{
			"kind":     string(event.Kind),
			"order_id": strconv.Itoa(event.OrderID),
		},
		Notification: &Notification{
			Title: event.Title,
			Body:  event.Body,
		},
	}
}

// SendMessage posts a fully built message.
func (c *FCMClient) SendMessage(ctx context.Context, msg *Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("fcm: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("fcm: build request: %w", err)
	}
	req.Header.Set("Authorization", "key="+c.cfg.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fcm: send: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("fcm: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return fmt.Errorf("fcm: decode response: %w", err)
	}
	if sr.Failure > 0 {
		reason := "unknown"
		for _, r := range sr.Results {
			if r.Error != "" {
				reason = r.Error
				break
			}
		}
		return fmt.Errorf("fcm: delivery failed: %s", reason)
	}
	return nil
}
