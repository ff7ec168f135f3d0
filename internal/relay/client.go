// Package relay registers reminder times with the push relay server.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

var (
	ErrNoRelayURL     = errors.New("relay url is not configured")
	ErrNoSubscription = errors.New("push subscription is not configured")
)

// Client talks to the push relay
type Client struct {
	baseURL      string
	httpClient   *http.Client
	subscription json.RawMessage
}

// reminder is the relay's wire form of models.Reminder
type reminder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

type subscribeRequest struct {
	Subscription json.RawMessage `json:"subscription"`
	Reminders    []reminder      `json:"reminders"`
}

type testRequest struct {
	Subscription json.RawMessage `json:"subscription"`
}

// NewClient creates a client for the relay at baseURL. subscription is the
// browser push subscription JSON the relay delivers to.
func NewClient(baseURL string, subscription json.RawMessage) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoRelayURL
	}
	if len(bytes.TrimSpace(subscription)) == 0 {
		return nil, ErrNoSubscription
	}
	if !json.Valid(subscription) {
		return nil, fmt.Errorf("%w: subscription is not valid JSON", ErrNoSubscription)
	}
	return &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: constants.RelayTimeout},
		subscription: subscription,
	}, nil
}

// LoadSubscription reads the push subscription JSON from path.
func LoadSubscription(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read subscription: %w", err)
	}
	return json.RawMessage(data), nil
}

// Subscribe replaces the relay's reminder list for this subscription.
func (c *Client) Subscribe(ctx context.Context, reminders []models.Reminder) error {
	body := subscribeRequest{Subscription: c.subscription, Reminders: make([]reminder, 0, len(reminders))}
	for _, r := range reminders {
		body.Reminders = append(body.Reminders, reminder{ID: r.HabitID, Name: r.HabitName, Time: r.ReminderTime})
	}
	return c.post(ctx, "/subscribe", body)
}

// SendTest asks the relay to push a test notification.
func (c *Client) SendTest(ctx context.Context) error {
	return c.post(ctx, "/send-test", testRequest{Subscription: c.subscription})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("relay error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
