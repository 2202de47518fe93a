// Package pomodoro implements the focus timer state machine. It is
// independent of the tracking loop: ticked by wall-clock time, queried
// on demand, and owning all of its own state.
package pomodoro

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidTransition is returned for operations that are not legal in
// the current state, e.g. Resume while not paused. The call is a no-op;
// the caller decides how loudly to report it.
var ErrInvalidTransition = errors.New("invalid pomodoro transition")

// State names the timer phases.
type State string

const (
	StateIdle       State = "idle"
	StateWorking    State = "working"
	StateShortBreak State = "short_break"
	StateLongBreak  State = "long_break"
	StatePaused     State = "paused"
)

// Default phase durations in seconds.
const (
	WorkSecs       = 1500
	ShortBreakSecs = 300
	LongBreakSecs  = 900

	// Every fourth completed pomodoro earns the long break.
	PomodorosPerCycle = 4
)

// Status is a read-only snapshot of the timer.
type Status struct {
	State         State
	RemainingSecs int64
	Completed     int
	CyclePosition int // completed pomodoros within the current cycle
}

// Timer is the pomodoro state machine. All methods are safe for
// concurrent use.
type Timer struct {
	mu        sync.Mutex
	state     State
	prevState State // remembered across Pause/Resume
	remaining int64
	completed int
	lastTick  time.Time

	workSecs       int64
	shortBreakSecs int64
	longBreakSecs  int64

	// onComplete is invoked (outside the lock) each time a work phase
	// completes, so completions can be persisted best-effort.
	onComplete func()
}

// New returns an idle timer with the default durations.
func New() *Timer {
	return &Timer{
		state:          StateIdle,
		workSecs:       WorkSecs,
		shortBreakSecs: ShortBreakSecs,
		longBreakSecs:  LongBreakSecs,
	}
}

// OnWorkComplete registers a callback fired after each completed work
// phase. Register before the timer is shared across goroutines.
func (t *Timer) OnWorkComplete(fn func()) {
	t.onComplete = fn
}

// Start begins a work phase. Only valid from idle.
func (t *Timer) Start(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateIdle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, t.state)
	}
	t.state = StateWorking
	t.remaining = t.workSecs
	t.lastTick = now
	return nil
}

// Pause suspends a running phase, remembering it for Resume.
func (t *Timer) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case StateWorking, StateShortBreak, StateLongBreak:
		t.prevState = t.state
		t.state = StatePaused
		return nil
	default:
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, t.state)
	}
}

// Resume returns to the phase Pause interrupted, remaining time intact.
func (t *Timer) Resume(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, t.state)
	}
	t.state = t.prevState
	t.lastTick = now
	return nil
}

// Reset returns to idle with zero remaining. The completed counter is
// deliberately untouched.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateIdle
	t.remaining = 0
}

// Skip performs the transition natural countdown completion would,
// without waiting for the remaining time.
func (t *Timer) Skip(now time.Time) error {
	t.mu.Lock()
	var fire bool
	switch t.state {
	case StateWorking, StateShortBreak, StateLongBreak:
		fire = t.completePhase()
		t.lastTick = now
	default:
		t.mu.Unlock()
		return fmt.Errorf("%w: skip from %s", ErrInvalidTransition, t.state)
	}
	t.mu.Unlock()
	if fire && t.onComplete != nil {
		t.onComplete()
	}
	return nil
}

// Tick advances the countdown by the wall-clock time elapsed since the
// previous tick. Driving by elapsed time keeps the timer correct when
// ticks arrive late or the process slept through several phases.
func (t *Timer) Tick(now time.Time) {
	t.mu.Lock()
	completions := 0
	switch t.state {
	case StateWorking, StateShortBreak, StateLongBreak:
		elapsed := int64(now.Sub(t.lastTick).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		t.lastTick = now
		t.remaining -= elapsed
		for t.remaining <= 0 {
			carry := -t.remaining
			if t.completePhase() {
				completions++
			}
			t.remaining -= carry
		}
	case StatePaused, StateIdle:
		t.lastTick = now
	}
	t.mu.Unlock()

	for i := 0; i < completions; i++ {
		if t.onComplete != nil {
			t.onComplete()
		}
	}
}

// completePhase performs the natural end-of-phase transition and loads
// the next phase's full duration. Reports whether a work phase finished.
// Callers hold t.mu.
func (t *Timer) completePhase() bool {
	switch t.state {
	case StateWorking:
		t.completed++
		if t.completed%PomodorosPerCycle == 0 {
			t.state = StateLongBreak
			t.remaining = t.longBreakSecs
		} else {
			t.state = StateShortBreak
			t.remaining = t.shortBreakSecs
		}
		return true
	case StateShortBreak, StateLongBreak:
		t.state = StateWorking
		t.remaining = t.workSecs
	}
	return false
}

// Status snapshots the timer.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		State:         t.state,
		RemainingSecs: t.remaining,
		Completed:     t.completed,
		CyclePosition: t.completed % PomodorosPerCycle,
	}
}

// FormatRemaining renders the countdown as MM:SS.
func (s Status) FormatRemaining() string {
	secs := s.RemainingSecs
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
