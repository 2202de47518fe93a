package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/probe"
	"github.com/krisk248/flowmode/internal/store"
)

// fakeProber is a scriptable desktop probe.
type fakeProber struct {
	win     probe.Window
	winErr  error
	idle    time.Duration
	idleErr error
}

func (f *fakeProber) ActiveWindow(context.Context) (probe.Window, error) {
	return f.win, f.winErr
}

func (f *fakeProber) IdleTime(context.Context) (time.Duration, error) {
	return f.idle, f.idleErr
}

// harness wires a tracker to an in-memory store with a manual clock.
type harness struct {
	tr    *Tracker
	st    *store.Store
	fp    *fakeProber
	clock time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	fp := &fakeProber{}
	tr := New(st, fp, cfg, zerolog.Nop())

	h := &harness{
		tr:    tr,
		st:    st,
		fp:    fp,
		clock: time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local),
	}
	tr.now = func() time.Time { return h.clock }
	return h
}

// tick advances the clock by the poll interval and samples once.
func (h *harness) tick(t *testing.T) {
	t.Helper()
	h.clock = h.clock.Add(time.Duration(h.tr.cfg.PollIntervalSecs) * time.Second)
	h.tr.Tick(context.Background())
}

// editor is a window matched by the default "VS Code" class rule.
func editor(title string) probe.Window {
	return probe.Window{Class: "Code", Title: title, Process: "code"}
}

func (h *harness) segments(t *testing.T, day string) []store.Segment {
	t.Helper()
	segs, err := h.st.QueryDay(day)
	if err != nil {
		t.Fatalf("QueryDay(%s): %v", day, err)
	}
	return segs
}

func TestUnmatchedWindowRecordsNothing(t *testing.T) {
	h := newHarness(t)
	h.fp.win = probe.Window{Class: "some-game", Title: "Vault 13", Process: "game"}
	for i := 0; i < 5; i++ {
		h.tick(t)
	}
	if segs := h.segments(t, store.DayKey(h.clock)); len(segs) != 0 {
		t.Fatalf("unmatched window produced %d segments", len(segs))
	}
	if snap := h.tr.Snapshot(); snap.Status != StatusWorking || snap.Current != nil {
		t.Fatalf("snapshot = %+v, want working with no current segment", snap)
	}
}

func TestConstantWindowExtendsOneSegment(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go - project")

	const ticks = 6
	for i := 0; i < ticks; i++ {
		h.tick(t)
	}

	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	// First tick opens the segment; each later tick flushes one interval.
	want := int64((ticks - 1) * h.tr.cfg.PollIntervalSecs)
	if segs[0].DurationSecs != want {
		t.Fatalf("duration = %d, want %d", segs[0].DurationSecs, want)
	}
	if segs[0].EndedAt != nil {
		t.Fatalf("segment closed prematurely at %v", segs[0].EndedAt)
	}
	if segs[0].AppName != "VS Code" {
		t.Fatalf("app = %q, want VS Code", segs[0].AppName)
	}
}

func TestTitleChangeStartsNewSegment(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go - project")
	h.tick(t)
	h.tick(t)

	h.fp.win = editor("store.go - project")
	h.tick(t)
	h.tick(t)

	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].WindowTitle != "main.go - project" || segs[0].EndedAt == nil {
		t.Fatalf("first segment: %+v", segs[0])
	}
	if segs[1].WindowTitle != "store.go - project" || segs[1].EndedAt != nil {
		t.Fatalf("second segment: %+v", segs[1])
	}
	// The switch tick credits its interval to the old segment.
	if want := int64(2 * h.tr.cfg.PollIntervalSecs); segs[0].DurationSecs != want {
		t.Fatalf("first segment duration = %d, want %d", segs[0].DurationSecs, want)
	}
}

func TestIdleClosesSegmentWithoutCreditingIdleTime(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go")
	h.tick(t)
	h.tick(t)
	h.tick(t)

	h.fp.idle = time.Duration(h.tr.cfg.IdleTimeoutSecs) * time.Second
	h.tick(t)

	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].EndedAt == nil {
		t.Fatal("segment still open after idle transition")
	}
	// Only the two flushed intervals count; the idle interval does not.
	if want := int64(2 * h.tr.cfg.PollIntervalSecs); segs[0].DurationSecs != want {
		t.Fatalf("duration = %d, want %d", segs[0].DurationSecs, want)
	}
	if snap := h.tr.Snapshot(); snap.Status != StatusIdle {
		t.Fatalf("status = %s, want idle", snap.Status)
	}
}

func TestIdleRecoveryOpensFreshSegment(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go")
	h.tick(t)
	h.tick(t)

	h.fp.idle = time.Duration(h.tr.cfg.IdleTimeoutSecs) * time.Second
	h.tick(t)

	h.fp.idle = 0
	h.tick(t)

	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[1].EndedAt != nil {
		t.Fatal("recovery segment not open")
	}
}

func TestPassiveInputFlipsSegment(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("talk.mp4")
	h.tick(t)
	h.tick(t)

	// Idle beyond the active-input threshold but below the idle
	// timeout: still tracked, now as passive.
	h.fp.idle = time.Duration(h.tr.cfg.ActiveInputThresholdSecs+10) * time.Second
	h.tick(t)
	h.tick(t)

	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if !segs[0].IsActive || segs[0].EndedAt == nil {
		t.Fatalf("first segment: %+v", segs[0])
	}
	if segs[1].IsActive || segs[1].EndedAt != nil {
		t.Fatalf("second segment: %+v", segs[1])
	}
}

func TestPauseClosesAndSuppressesRecording(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go")
	h.tick(t)
	h.tick(t)

	h.tr.Pause()
	h.tick(t)
	h.tick(t)

	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].EndedAt == nil {
		t.Fatal("segment still open while paused")
	}
	if snap := h.tr.Snapshot(); snap.Status != StatusPaused {
		t.Fatalf("status = %s, want paused", snap.Status)
	}

	h.tr.Resume()
	h.tick(t)
	if segs := h.segments(t, store.DayKey(h.clock)); len(segs) != 2 {
		t.Fatalf("got %d segments after resume, want 2", len(segs))
	}
	if snap := h.tr.Snapshot(); snap.Status != StatusWorking {
		t.Fatalf("status = %s, want working", snap.Status)
	}
}

func TestMidnightSplitsSegmentAcrossDays(t *testing.T) {
	h := newHarness(t)
	h.clock = time.Date(2026, 8, 30, 23, 59, 32, 0, time.Local)
	h.fp.win = editor("main.go")

	// Open before midnight, keep ticking into the next day.
	for i := 0; i < 12; i++ {
		h.tick(t)
	}

	before := h.segments(t, "2026-08-30")
	after := h.segments(t, "2026-08-31")
	if len(before) != 1 || len(after) != 1 {
		t.Fatalf("got %d/%d segments, want 1 per day", len(before), len(after))
	}
	if before[0].EndedAt == nil {
		t.Fatal("pre-midnight segment not closed")
	}
	midnight := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	if !before[0].EndedAt.Equal(midnight) {
		t.Fatalf("pre-midnight segment ends at %v, want %v", before[0].EndedAt, midnight)
	}
	if !after[0].StartedAt.Equal(midnight) {
		t.Fatalf("post-midnight segment starts at %v, want %v", after[0].StartedAt, midnight)
	}
	if after[0].EndedAt != nil {
		t.Fatal("post-midnight segment should still be open")
	}
	// No interval is lost or double counted across the split.
	total := before[0].DurationSecs + after[0].DurationSecs
	if want := int64(11 * h.tr.cfg.PollIntervalSecs); total != want {
		t.Fatalf("summed duration = %d, want %d", total, want)
	}
}

func TestProbeFailureSkipsSampleWithoutStateChange(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go")
	h.tick(t)
	h.tick(t)

	h.fp.idleErr = probe.ErrUnavailable
	h.tick(t)

	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 1 || segs[0].EndedAt != nil {
		t.Fatalf("segments after probe failure: %+v", segs)
	}

	// Recovery: the skipped interval flushes on the next good sample.
	h.fp.idleErr = nil
	h.tick(t)
	segs = h.segments(t, store.DayKey(h.clock))
	if want := int64(3 * h.tr.cfg.PollIntervalSecs); segs[0].DurationSecs != want {
		t.Fatalf("duration = %d, want %d", segs[0].DurationSecs, want)
	}
}

func TestFlushClosesOpenSegment(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go")
	h.tick(t)
	h.tick(t)

	h.clock = h.clock.Add(3 * time.Second)
	if err := h.tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	segs := h.segments(t, store.DayKey(h.clock))
	if len(segs) != 1 || segs[0].EndedAt == nil {
		t.Fatalf("segments after flush: %+v", segs)
	}
	// The partial interval since the last flush is credited.
	if want := int64(h.tr.cfg.PollIntervalSecs + 3); segs[0].DurationSecs != want {
		t.Fatalf("duration = %d, want %d", segs[0].DurationSecs, want)
	}
	if err := h.tr.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
}

func TestSnapshotReflectsCurrentSegment(t *testing.T) {
	h := newHarness(t)
	h.fp.win = editor("main.go")
	h.tick(t)
	h.tick(t)

	snap := h.tr.Snapshot()
	if snap.Status != StatusWorking {
		t.Fatalf("status = %s, want working", snap.Status)
	}
	if snap.Current == nil {
		t.Fatal("no current segment in snapshot")
	}
	if snap.Current.AppName != "VS Code" || !snap.Current.IsActive {
		t.Fatalf("current = %+v", snap.Current)
	}
	if want := int64(h.tr.cfg.PollIntervalSecs); snap.Current.ElapsedSecs != want {
		t.Fatalf("elapsed = %d, want %d", snap.Current.ElapsedSecs, want)
	}
	if !snap.LastSampleAt.Equal(h.clock) {
		t.Fatalf("last sample = %v, want %v", snap.LastSampleAt, h.clock)
	}
}
