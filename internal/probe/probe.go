// Package probe reads the active window and user idle time from the
// windowing environment. The daemon treats probe failures as "no sample
// this tick", never as fatal errors.
package probe

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the windowing environment cannot be
// queried (no display, helper binaries missing, helper timed out).
var ErrUnavailable = errors.New("window probe unavailable")

// Window describes the currently focused window.
type Window struct {
	Class   string
	Title   string
	Process string
}

// Prober is the external signal source the tracker polls.
type Prober interface {
	// ActiveWindow returns the focused window, or ErrUnavailable.
	ActiveWindow(ctx context.Context) (Window, error)
	// IdleTime returns how long the user has been without input.
	IdleTime(ctx context.Context) (time.Duration, error)
}
