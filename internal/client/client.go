// Package client is a thin HTTP client for a running daemon's local
// API. The CLI and the dashboard use it instead of touching daemon
// state directly.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDaemonUnreachable wraps connection failures so callers can render
// a friendly "daemon not running" message.
var ErrDaemonUnreachable = errors.New("daemon unreachable")

// Status mirrors the /api/status payload.
type Status struct {
	Status       string          `json:"status"`
	Current      *CurrentSegment `json:"current_segment"`
	LastSampleAt string          `json:"last_sample_at"`
	TodaySecs    int64           `json:"today_secs"`
	TodayDisplay string          `json:"today_display"`
	Pomodoro     Pomodoro        `json:"pomodoro"`
}

// CurrentSegment mirrors the open-segment part of /api/status.
type CurrentSegment struct {
	AppName     string `json:"app_name"`
	Category    string `json:"category"`
	WindowTitle string `json:"window_title"`
	StartedAt   string `json:"started_at"`
	IsActive    bool   `json:"is_active"`
	ElapsedSecs int64  `json:"elapsed_secs"`
}

// Pomodoro mirrors the pomodoro status payload.
type Pomodoro struct {
	State         string `json:"state"`
	RemainingSecs int64  `json:"remaining_secs"`
	Remaining     string `json:"remaining"`
	Completed     int    `json:"completed"`
	CyclePosition int    `json:"cycle_position"`
}

// Client talks to the daemon's JSON API.
type Client struct {
	base string
	http *http.Client
}

// New builds a client for the daemon listening on addr (host:port).
func New(addr string) *Client {
	return &Client{
		base: "http://" + addr,
		http: &http.Client{Timeout: 3 * time.Second},
	}
}

// Status fetches the daemon's tracking and pomodoro state.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.get(ctx, "/api/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// PauseTracking suspends recording on the daemon.
func (c *Client) PauseTracking(ctx context.Context) error {
	return c.post(ctx, "/api/tracking/pause", nil)
}

// ResumeTracking re-enables recording on the daemon.
func (c *Client) ResumeTracking(ctx context.Context) error {
	return c.post(ctx, "/api/tracking/resume", nil)
}

// PomodoroStatus fetches the timer state.
func (c *Client) PomodoroStatus(ctx context.Context) (*Pomodoro, error) {
	var st Pomodoro
	if err := c.get(ctx, "/api/pomodoro/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// PomodoroOp posts one of start, pause, resume, reset, skip and returns
// the fresh timer state.
func (c *Client) PomodoroOp(ctx context.Context, op string) (*Pomodoro, error) {
	var st Pomodoro
	if err := c.post(ctx, "/api/pomodoro/"+op, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
