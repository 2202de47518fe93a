package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// callTimeout bounds each helper invocation so a wedged X server can
// never stall the poll loop past one tick.
const callTimeout = 2 * time.Second

// X11 reads window state via xdotool/xprop and idle time via xprintidle.
type X11 struct{}

// NewX11 returns a probe backed by the standard X11 helper binaries.
func NewX11() *X11 { return &X11{} }

func (p *X11) ActiveWindow(ctx context.Context) (Window, error) {
	windowID, err := p.run(ctx, "xdotool", "getactivewindow")
	if err != nil || windowID == "" {
		return Window{}, fmt.Errorf("%w: no active window", ErrUnavailable)
	}

	title, err := p.run(ctx, "xdotool", "getwindowname", windowID)
	if err != nil {
		return Window{}, fmt.Errorf("%w: window title: %v", ErrUnavailable, err)
	}

	classOut, err := p.run(ctx, "xprop", "-id", windowID, "WM_CLASS")
	if err != nil {
		return Window{}, fmt.Errorf("%w: window class: %v", ErrUnavailable, err)
	}
	class, instance := parseWMClass(classOut)

	return Window{Class: class, Title: title, Process: instance}, nil
}

// IdleTime shells out to xprintidle. A missing binary degrades to zero
// idle (assume active) rather than an error, matching desktops where
// xprintidle simply is not installed.
func (p *X11) IdleTime(ctx context.Context) (time.Duration, error) {
	out, err := p.run(ctx, "xprintidle")
	if err != nil {
		if _, lookErr := exec.LookPath("xprintidle"); lookErr != nil {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: xprintidle: %v", ErrUnavailable, err)
	}
	ms, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse idle %q: %v", ErrUnavailable, out, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (p *X11) run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// parseWMClass extracts the class and instance from xprop output of the
// form: WM_CLASS(STRING) = "instance", "Class".
func parseWMClass(out string) (class, instance string) {
	parts := strings.Split(out, `"`)
	if len(parts) >= 2 {
		instance = parts[1]
	}
	if len(parts) >= 4 {
		class = parts[3]
	}
	if class == "" {
		class = instance
	}
	if class == "" {
		class = "unknown"
	}
	return class, instance
}
