// Package client is the HTTP consumer of the pledge API used by the admin
// CLI. The base URL is an explicit constructor argument, never ambient state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"greenpledge/internal/dto"
)

// ErrUnauthorized marks a rejected admin credential.
var ErrUnauthorized = errors.New("unauthorized")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Submit(ctx context.Context, draft dto.SubmitRequest) (*dto.SubmitResponse, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, serverError(resp)
	}

	var out dto.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode submit response: %w", err)
	}
	return &out, nil
}

func (c *Client) Pledges(ctx context.Context) (*dto.WallResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/pledges", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pledges request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}

	var out dto.WallResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode pledges response: %w", err)
	}
	return &out, nil
}

// AdminStats fetches the full working set with a bearer credential. A 401
// comes back as ErrUnauthorized so callers can tell a bad credential from a
// transport failure.
func (c *Client) AdminStats(ctx context.Context, credential string) (*dto.AdminStatsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/admin-stats", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("admin-stats request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}

	var out dto.AdminStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode admin-stats response: %w", err)
	}
	return &out, nil
}

// serverError extracts the message from an error payload, looking at the
// "error" field first and "message" second.
func serverError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, payload.Error)
		}
		if payload.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, payload.Message)
		}
	}
	return fmt.Errorf("server error (%d)", resp.StatusCode)
}
