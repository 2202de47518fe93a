// Package server exposes the daemon's state over a local JSON API.
// Handlers only read the store and the tracker/pomodoro snapshots, so
// they never contend with the sampling loop's writes.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/krisk248/flowmode/internal/analytics"
	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/pomodoro"
	"github.com/krisk248/flowmode/internal/store"
	"github.com/krisk248/flowmode/internal/titles"
	"github.com/krisk248/flowmode/internal/tracker"
)

// Server bundles the daemon components the API reads from.
type Server struct {
	st  *store.Store
	tr  *tracker.Tracker
	pm  *pomodoro.Timer
	cfg *config.Config
	log zerolog.Logger
	now func() time.Time
}

// New builds the API server over live daemon components.
func New(st *store.Store, tr *tracker.Tracker, pm *pomodoro.Timer, cfg *config.Config, log zerolog.Logger) *Server {
	return &Server{
		st:  st,
		tr:  tr,
		pm:  pm,
		cfg: cfg,
		log: log.With().Str("component", "server").Logger(),
		now: time.Now,
	}
}

// Handler returns the routed API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/today", s.handleToday)
	mux.HandleFunc("GET /api/today/detailed", s.handleTodayDetailed)
	mux.HandleFunc("GET /api/today/hourly", s.handleTodayHourly)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/analytics/summary", s.handleAnalyticsSummary)
	mux.HandleFunc("GET /api/analytics/trends", s.handleTrends)
	mux.HandleFunc("GET /api/analytics/burnout", s.handleBurnout)
	mux.HandleFunc("POST /api/tracking/pause", s.handleTrackingPause)
	mux.HandleFunc("POST /api/tracking/resume", s.handleTrackingResume)
	mux.HandleFunc("GET /api/pomodoro/status", s.handlePomodoroStatus)
	mux.HandleFunc("POST /api/pomodoro/start", s.pomodoroOp(func() error { return s.pm.Start(s.now()) }))
	mux.HandleFunc("POST /api/pomodoro/pause", s.pomodoroOp(func() error { return s.pm.Pause() }))
	mux.HandleFunc("POST /api/pomodoro/resume", s.pomodoroOp(func() error { return s.pm.Resume(s.now()) }))
	mux.HandleFunc("POST /api/pomodoro/reset", s.pomodoroOp(func() error { s.pm.Reset(); return nil }))
	mux.HandleFunc("POST /api/pomodoro/skip", s.pomodoroOp(func() error { return s.pm.Skip(s.now()) }))
	return mux
}

type statusResponse struct {
	Status       string          `json:"status"`
	Current      *currentSegment `json:"current_segment"`
	LastSampleAt string          `json:"last_sample_at,omitempty"`
	TodaySecs    int64           `json:"today_secs"`
	TodayDisplay string          `json:"today_display"`
	Pomodoro     pomodoroStatus  `json:"pomodoro"`
}

type currentSegment struct {
	AppName     string `json:"app_name"`
	Category    string `json:"category"`
	WindowTitle string `json:"window_title"`
	StartedAt   string `json:"started_at"`
	IsActive    bool   `json:"is_active"`
	ElapsedSecs int64  `json:"elapsed_secs"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	total, err := s.st.DayTotalSecs(store.DayKey(now))
	if err != nil {
		s.serverError(w, err)
		return
	}
	snap := s.tr.Snapshot()
	resp := statusResponse{
		Status:       string(snap.Status),
		TodaySecs:    total,
		TodayDisplay: analytics.FormatDuration(total),
		Pomodoro:     toPomodoroStatus(s.pm.Status()),
	}
	if !snap.LastSampleAt.IsZero() {
		resp.LastSampleAt = snap.LastSampleAt.Format(time.RFC3339)
	}
	if snap.Current != nil {
		resp.Current = &currentSegment{
			AppName:     snap.Current.AppName,
			Category:    snap.Current.Category,
			WindowTitle: snap.Current.WindowTitle,
			StartedAt:   snap.Current.StartedAt.Format(time.RFC3339),
			IsActive:    snap.Current.IsActive,
			ElapsedSecs: snap.Current.ElapsedSecs,
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type todayResponse struct {
	Day          string       `json:"day"`
	TotalSecs    int64        `json:"total_secs"`
	TotalDisplay string       `json:"total_display"`
	ActiveSecs   int64        `json:"active_secs"`
	PassiveSecs  int64        `json:"passive_secs"`
	Apps         []appSummary `json:"apps"`
}

type appSummary struct {
	AppName   string `json:"app_name"`
	Category  string `json:"category"`
	TotalSecs int64  `json:"total_secs"`
	Display   string `json:"display"`
	Percent   int    `json:"percent"`
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	day := store.DayKey(s.now())
	segments, err := s.st.QueryDay(day)
	if err != nil {
		s.serverError(w, err)
		return
	}
	split := analytics.ActivePassive(segments)
	resp := todayResponse{
		Day:          day,
		ActiveSecs:   split.ActiveSecs,
		PassiveSecs:  split.PassiveSecs,
		Apps:         []appSummary{},
	}
	for _, a := range analytics.Summarize(segments) {
		resp.TotalSecs += a.TotalSecs
		resp.Apps = append(resp.Apps, appSummary{
			AppName:   a.AppName,
			Category:  a.Category,
			TotalSecs: a.TotalSecs,
			Display:   analytics.FormatDuration(a.TotalSecs),
			Percent:   a.Percent,
		})
	}
	resp.TotalDisplay = analytics.FormatDuration(resp.TotalSecs)
	s.writeJSON(w, http.StatusOK, resp)
}

type detailedEntry struct {
	AppName     string `json:"app_name"`
	Category    string `json:"category"`
	WindowTitle string `json:"window_title"`
	Context     string `json:"context"`
	ContextType string `json:"context_type,omitempty"`
	TotalSecs   int64  `json:"total_secs"`
	Display     string `json:"display"`
}

func (s *Server) handleTodayDetailed(w http.ResponseWriter, r *http.Request) {
	segments, err := s.st.QueryDay(store.DayKey(s.now()))
	if err != nil {
		s.serverError(w, err)
		return
	}
	entries := []detailedEntry{}
	for _, d := range analytics.Detailed(segments) {
		parsed := titles.Parse(d.AppName, d.Category, d.WindowTitle)
		entries = append(entries, detailedEntry{
			AppName:     d.AppName,
			Category:    d.Category,
			WindowTitle: d.WindowTitle,
			Context:     parsed.Display,
			ContextType: parsed.ContextType,
			TotalSecs:   d.TotalSecs,
			Display:     analytics.FormatDuration(d.TotalSecs),
		})
	}
	s.writeJSON(w, http.StatusOK, entries)
}

type hourlyBucket struct {
	Hour        int   `json:"hour"`
	TotalSecs   int64 `json:"total_secs"`
	ActiveSecs  int64 `json:"active_secs"`
	PassiveSecs int64 `json:"passive_secs"`
}

func (s *Server) handleTodayHourly(w http.ResponseWriter, r *http.Request) {
	segments, err := s.st.QueryDay(store.DayKey(s.now()))
	if err != nil {
		s.serverError(w, err)
		return
	}
	buckets := make([]hourlyBucket, 0, 24)
	for _, b := range analytics.Hourly(segments) {
		buckets = append(buckets, hourlyBucket{
			Hour:        b.Hour,
			TotalSecs:   b.TotalSecs,
			ActiveSecs:  b.ActiveSecs,
			PassiveSecs: b.PassiveSecs,
		})
	}
	s.writeJSON(w, http.StatusOK, buckets)
}

type historyEntry struct {
	Day       string `json:"day"`
	TotalSecs int64  `json:"total_secs"`
	Display   string `json:"display"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			s.clientError(w, "days must be an integer between 1 and 365")
			return
		}
		days = n
	}
	now := s.now()
	from := store.DayKey(now.AddDate(0, 0, -(days - 1)))
	totals, err := s.st.DailyTotals(from, store.DayKey(now))
	if err != nil {
		s.serverError(w, err)
		return
	}
	entries := []historyEntry{}
	for _, h := range analytics.History(totals, now, days) {
		entries = append(entries, historyEntry{
			Day:       h.Day,
			TotalSecs: h.TotalSecs,
			Display:   h.Formatted,
		})
	}
	s.writeJSON(w, http.StatusOK, entries)
}

type trendDay struct {
	Day         string `json:"day"`
	TotalSecs   int64  `json:"total_secs"`
	ActiveSecs  int64  `json:"active_secs"`
	PassiveSecs int64  `json:"passive_secs"`
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	from := store.DayKey(now.AddDate(0, 0, -29))
	totals, err := s.st.DailyTotals(from, store.DayKey(now))
	if err != nil {
		s.serverError(w, err)
		return
	}
	byDay := make(map[string]store.DayTotal, len(totals))
	for _, t := range totals {
		byDay[t.Day] = t
	}
	days := []trendDay{}
	for i := 29; i >= 0; i-- {
		day := store.DayKey(now.AddDate(0, 0, -i))
		t := byDay[day]
		days = append(days, trendDay{
			Day:         day,
			TotalSecs:   t.TotalSecs,
			ActiveSecs:  t.ActiveSecs,
			PassiveSecs: t.PassiveSecs,
		})
	}
	s.writeJSON(w, http.StatusOK, days)
}

type analyticsSummary struct {
	WeekSecs        int64  `json:"week_secs"`
	WeekDisplay     string `json:"week_display"`
	DailyAvgSecs    int64  `json:"daily_avg_secs"`
	FocusStreakSecs int64  `json:"focus_streak_secs"`
	FocusDisplay    string `json:"focus_streak_display"`
	PomodorosToday  int    `json:"pomodoros_today"`
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	today := store.DayKey(now)
	from := store.DayKey(now.AddDate(0, 0, -6))

	totals, err := s.st.DailyTotals(from, today)
	if err != nil {
		s.serverError(w, err)
		return
	}
	var weekSecs int64
	for _, d := range totals {
		weekSecs += d.TotalSecs
	}

	segments, err := s.st.QueryDay(today)
	if err != nil {
		s.serverError(w, err)
		return
	}
	gap := 2 * time.Duration(s.cfg.PollIntervalSecs) * time.Second
	streak := analytics.FocusStreak(segments, s.cfg.IsFocusCategory, gap)

	completed, err := s.st.PomodoroCompleted(today)
	if err != nil {
		s.serverError(w, err)
		return
	}

	streakSecs := int64(streak / time.Second)
	s.writeJSON(w, http.StatusOK, analyticsSummary{
		WeekSecs:        weekSecs,
		WeekDisplay:     analytics.FormatDuration(weekSecs),
		DailyAvgSecs:    weekSecs / 7,
		FocusStreakSecs: streakSecs,
		FocusDisplay:    analytics.FormatDuration(streakSecs),
		PomodorosToday:  completed,
	})
}

type burnoutResponse struct {
	Level               string  `json:"level"`
	WeeklyHours         float64 `json:"weekly_hours"`
	ConsecutiveLongDays int     `json:"consecutive_long_days"`
	Trend               string  `json:"trend"`
	Recommendation      string  `json:"recommendation"`
}

func (s *Server) handleBurnout(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	from := store.DayKey(now.AddDate(0, 0, -13))
	totals, err := s.st.DailyTotals(from, store.DayKey(now))
	if err != nil {
		s.serverError(w, err)
		return
	}
	rep := analytics.Burnout(totals, now)
	s.writeJSON(w, http.StatusOK, burnoutResponse{
		Level:               rep.Level,
		WeeklyHours:         rep.WeeklyHours,
		ConsecutiveLongDays: rep.ConsecutiveLongDays,
		Trend:               rep.TrendDirection,
		Recommendation:      rep.Recommendation,
	})
}

func (s *Server) handleTrackingPause(w http.ResponseWriter, r *http.Request) {
	s.tr.Pause()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": string(tracker.StatusPaused)})
}

func (s *Server) handleTrackingResume(w http.ResponseWriter, r *http.Request) {
	s.tr.Resume()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": string(tracker.StatusWorking)})
}

type pomodoroStatus struct {
	State         string `json:"state"`
	RemainingSecs int64  `json:"remaining_secs"`
	Remaining     string `json:"remaining"`
	Completed     int    `json:"completed"`
	CyclePosition int    `json:"cycle_position"`
}

func toPomodoroStatus(st pomodoro.Status) pomodoroStatus {
	return pomodoroStatus{
		State:         string(st.State),
		RemainingSecs: st.RemainingSecs,
		Remaining:     st.FormatRemaining(),
		Completed:     st.Completed,
		CyclePosition: st.CyclePosition,
	}
}

func (s *Server) handlePomodoroStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, toPomodoroStatus(s.pm.Status()))
}

// pomodoroOp wraps a timer operation: invalid transitions are client
// errors, every success answers with the fresh timer status.
func (s *Server) pomodoroOp(op func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(); err != nil {
			if errors.Is(err, pomodoro.ErrInvalidTransition) {
				s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
			s.serverError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toPomodoroStatus(s.pm.Status()))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("request failed")
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func (s *Server) clientError(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
