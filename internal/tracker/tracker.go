// Package tracker runs the sampling loop: probe the desktop, classify
// the focused window against the whitelist, and maintain at most one
// open segment in the store.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/probe"
	"github.com/krisk248/flowmode/internal/rules"
	"github.com/krisk248/flowmode/internal/store"
)

// Status names the tracker's coarse states.
type Status string

const (
	StatusWorking Status = "working"
	StatusIdle    Status = "idle"
	StatusPaused  Status = "paused"
)

// CurrentSegment describes the open segment for status readers.
type CurrentSegment struct {
	ID          int64
	AppName     string
	Category    string
	WindowTitle string
	StartedAt   time.Time
	IsActive    bool
	ElapsedSecs int64
}

// Snapshot is the read-side view of the tracker, safe to hand to
// concurrent queriers.
type Snapshot struct {
	Status       Status
	Current      *CurrentSegment
	LastSampleAt time.Time
}

// openSegment is the loop's in-memory handle on the store's open row.
// lastFlush is the durability watermark: everything up to it has been
// written; it only advances after a successful store write.
type openSegment struct {
	id        int64
	appName   string
	category  string
	title     string
	isActive  bool
	startedAt time.Time
	lastFlush time.Time
}

// Tracker owns the poll loop. All store writes happen under opMu, so
// there is exactly one writer; stateMu guards only the snapshot fields
// and is never held across I/O.
type Tracker struct {
	st     *store.Store
	prober probe.Prober
	cfg    *config.Config
	log    zerolog.Logger
	now    func() time.Time

	opMu sync.Mutex
	cur  *openSegment

	stateMu      sync.RWMutex
	status       Status
	paused       bool
	currentView  *CurrentSegment
	lastSampleAt time.Time
}

// New builds a tracker over the given store, prober, and config.
func New(st *store.Store, prober probe.Prober, cfg *config.Config, log zerolog.Logger) *Tracker {
	return &Tracker{
		st:     st,
		prober: prober,
		cfg:    cfg,
		log:    log.With().Str("component", "tracker").Logger(),
		now:    time.Now,
		status: StatusIdle,
	}
}

// Run samples at the configured interval until ctx is cancelled, then
// flushes and closes any open segment before returning.
func (t *Tracker) Run(ctx context.Context) error {
	interval := time.Duration(t.cfg.PollIntervalSecs) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.log.Info().Dur("interval", interval).Msg("tracker started")
	for {
		select {
		case <-ctx.Done():
			if err := t.Flush(); err != nil {
				t.log.Error().Err(err).Msg("final flush failed")
				return fmt.Errorf("flush on shutdown: %w", err)
			}
			t.log.Info().Msg("tracker stopped")
			return nil
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick performs one sample. Exported so the daemon can prime the first
// sample without waiting a full interval.
func (t *Tracker) Tick(ctx context.Context) {
	t.opMu.Lock()
	defer t.opMu.Unlock()

	now := t.now()

	if t.isPaused() {
		t.closeCurrent(now, false)
		t.setState(StatusPaused, now)
		return
	}

	idle, err := t.prober.IdleTime(ctx)
	if err != nil {
		t.log.Debug().Err(err).Msg("idle probe failed, skipping sample")
		return
	}
	if idle >= time.Duration(t.cfg.IdleTimeoutSecs)*time.Second {
		// Time since the last flush was spent idle; do not credit it.
		t.closeCurrent(now, false)
		t.setState(StatusIdle, now)
		return
	}

	win, err := t.prober.ActiveWindow(ctx)
	if err != nil {
		t.log.Debug().Err(err).Msg("window probe failed, skipping sample")
		return
	}

	m, ok := rules.Classify(win, t.cfg.Rules)
	if !ok {
		// Unmatched windows are never recorded.
		t.closeCurrent(now, true)
		t.setState(StatusWorking, now)
		return
	}

	isActive := idle < time.Duration(t.cfg.ActiveInputThresholdSecs)*time.Second

	if t.cur != nil && !t.sameSegment(m.AppName, win.Title, isActive) {
		t.closeCurrent(now, true)
	}
	if t.cur == nil {
		t.open(m, win.Title, isActive, now)
	} else {
		t.extend(now)
	}
	t.setState(StatusWorking, now)
}

// sameSegment reports whether the open segment continues under the
// sampled window. Any change of app, title, or interactivity starts a
// fresh segment so per-title detail and active/passive splits stay
// accurate.
func (t *Tracker) sameSegment(app, title string, isActive bool) bool {
	return t.cur.appName == app && t.cur.title == title && t.cur.isActive == isActive
}

func (t *Tracker) open(m rules.Match, title string, isActive bool, now time.Time) {
	id, err := t.st.StartSegment(m.AppName, m.Category, title, isActive, now)
	if err != nil {
		t.log.Error().Err(err).Str("app", m.AppName).Msg("start segment failed")
		return
	}
	t.cur = &openSegment{
		id:        id,
		appName:   m.AppName,
		category:  m.Category,
		title:     title,
		isActive:  isActive,
		startedAt: now,
		lastFlush: now,
	}
	t.log.Debug().Str("app", m.AppName).Str("category", m.Category).
		Bool("active", isActive).Msg("segment opened")
}

// extend flushes the elapsed interval onto the open segment, splitting
// it at local midnight so no row spans two days.
func (t *Tracker) extend(now time.Time) {
	dayStart := startOfDay(now)
	if t.cur.startedAt.Before(dayStart) {
		if !t.rollover(dayStart) {
			return
		}
	}
	delta := wholeSecs(now.Sub(t.cur.lastFlush))
	if delta <= 0 {
		return
	}
	if err := t.st.ExtendSegment(t.cur.id, delta, t.cur.title); err != nil {
		// Keep the watermark; the next tick retries the whole span.
		t.log.Warn().Err(err).Int64("segment", t.cur.id).Msg("extend failed")
		return
	}
	t.cur.lastFlush = now
}

// rollover closes the open segment at the day boundary and reopens an
// identical one starting there. Reports whether the new segment exists.
func (t *Tracker) rollover(dayStart time.Time) bool {
	old := t.cur
	delta := wholeSecs(dayStart.Sub(old.lastFlush))
	if delta > 0 {
		if err := t.st.ExtendSegment(old.id, delta, old.title); err != nil {
			t.log.Warn().Err(err).Int64("segment", old.id).Msg("extend at day boundary failed")
			return false
		}
		old.lastFlush = dayStart
	}
	if err := t.st.CloseSegment(old.id, dayStart); err != nil {
		t.log.Warn().Err(err).Int64("segment", old.id).Msg("close at day boundary failed")
		return false
	}
	id, err := t.st.StartSegment(old.appName, old.category, old.title, old.isActive, dayStart)
	if err != nil {
		t.log.Error().Err(err).Str("app", old.appName).Msg("reopen after day boundary failed")
		t.cur = nil
		return false
	}
	t.log.Debug().Str("app", old.appName).Msg("segment split at midnight")
	t.cur = &openSegment{
		id:        id,
		appName:   old.appName,
		category:  old.category,
		title:     old.title,
		isActive:  old.isActive,
		startedAt: dayStart,
		lastFlush: dayStart,
	}
	return true
}

// closeCurrent ends the open segment, if any. When credit is true the
// span since the last flush is attributed to the segment first; idle
// and pause closes pass false so unattended time is dropped.
func (t *Tracker) closeCurrent(now time.Time, credit bool) {
	if t.cur == nil {
		return
	}
	if credit {
		t.extend(now)
		if t.cur == nil {
			return // rollover failure already cleared it
		}
	}
	end := now
	if !credit {
		end = t.cur.lastFlush
	}
	if end.Before(t.cur.startedAt) {
		end = t.cur.startedAt
	}
	if err := t.st.CloseSegment(t.cur.id, end); err != nil {
		// Leave the segment open in memory; the next tick retries.
		t.log.Warn().Err(err).Int64("segment", t.cur.id).Msg("close failed")
		return
	}
	t.log.Debug().Str("app", t.cur.appName).
		Int64("secs", wholeSecs(end.Sub(t.cur.startedAt))).Msg("segment closed")
	t.cur = nil
}

// Pause stops recording until Resume. Idempotent; the open segment is
// closed on the next tick.
func (t *Tracker) Pause() {
	t.stateMu.Lock()
	t.paused = true
	t.stateMu.Unlock()
	t.log.Info().Msg("tracking paused")

	// Close promptly rather than waiting out a poll interval.
	t.opMu.Lock()
	t.closeCurrent(t.now(), false)
	t.setState(StatusPaused, t.now())
	t.opMu.Unlock()
}

// Resume re-enables recording. The next tick decides the real state.
func (t *Tracker) Resume() {
	t.stateMu.Lock()
	t.paused = false
	t.stateMu.Unlock()
	t.log.Info().Msg("tracking resumed")
}

// Flush credits and closes the open segment. Called on shutdown.
func (t *Tracker) Flush() error {
	t.opMu.Lock()
	defer t.opMu.Unlock()
	if t.cur == nil {
		return nil
	}
	id := t.cur.id
	t.closeCurrent(t.now(), true)
	if t.cur != nil {
		return fmt.Errorf("segment %d not closed", id)
	}
	return nil
}

// Snapshot returns the current tracker state without blocking the loop.
func (t *Tracker) Snapshot() Snapshot {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()
	return Snapshot{
		Status:       t.status,
		Current:      t.currentView,
		LastSampleAt: t.lastSampleAt,
	}
}

func (t *Tracker) isPaused() bool {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()
	return t.paused
}

// setState publishes status and the current-segment view. Callers hold
// opMu so t.cur is stable.
func (t *Tracker) setState(s Status, now time.Time) {
	var view *CurrentSegment
	if t.cur != nil {
		view = &CurrentSegment{
			ID:          t.cur.id,
			AppName:     t.cur.appName,
			Category:    t.cur.category,
			WindowTitle: t.cur.title,
			StartedAt:   t.cur.startedAt,
			IsActive:    t.cur.isActive,
			ElapsedSecs: wholeSecs(now.Sub(t.cur.startedAt)),
		}
	}
	t.stateMu.Lock()
	t.status = s
	t.currentView = view
	t.lastSampleAt = now
	t.stateMu.Unlock()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func wholeSecs(d time.Duration) int64 {
	return int64(d / time.Second)
}
