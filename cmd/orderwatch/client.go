package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// apiCounter polls the backend's pending-count endpoint.
type apiCounter struct {
	baseURL string
	token   string
	client  *http.Client
}

func newAPICounter(baseURL, token string) (*apiCounter, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("arrivals api base url is required")
	}
	return &apiCounter{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *apiCounter) PendingCount(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/orders/pending-count", nil)
	if err != nil {
		return 0, fmt.Errorf("build pending count request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch pending count: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pending count returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			PendingCount int `json:"pending_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, fmt.Errorf("decode pending count: %w", err)
	}
	return envelope.Data.PendingCount, nil
}

// terminalNotifier announces new arrivals on stdout, ringing the terminal
// bell when sound is enabled.
type terminalNotifier struct{}

func (terminalNotifier) NewArrivals(badge int, playSound bool) {
	if playSound {
		fmt.Print("\a")
	}
	fmt.Printf("new orders waiting: %d\n", badge)
}
