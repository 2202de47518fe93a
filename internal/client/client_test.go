package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(strings.TrimPrefix(srv.URL, "http://"))
}

func TestStatusRoundTrip(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Status{
			Status:       "working",
			TodaySecs:    3600,
			TodayDisplay: "1h",
			Pomodoro:     Pomodoro{State: "idle"},
		})
	}))

	st, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Status != "working" || st.TodaySecs != 3600 {
		t.Fatalf("status = %+v", st)
	}
}

func TestPomodoroOpSurfacesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid pomodoro transition"})
	}))

	_, err := c.PomodoroOp(context.Background(), "start")
	if err == nil || !strings.Contains(err.Error(), "invalid pomodoro transition") {
		t.Fatalf("err = %v, want API error text", err)
	}
}

func TestUnreachableDaemon(t *testing.T) {
	c := New("127.0.0.1:1") // nothing listens there
	_, err := c.Status(context.Background())
	if !errors.Is(err, ErrDaemonUnreachable) {
		t.Fatalf("err = %v, want ErrDaemonUnreachable", err)
	}
}
