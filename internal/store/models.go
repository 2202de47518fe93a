package store

import "time"

// DayFormat is the layout of the day key used throughout the store.
const DayFormat = "2006-01-02"

// Segment is a contiguous, persisted span of tracked time for one
// (app, window title) pair within one calendar day.
//
// StartedAt is immutable once written; DurationSecs only grows while
// the segment is open. A nil EndedAt marks the currently open segment.
type Segment struct {
	ID           int64
	AppName      string
	Category     string
	WindowTitle  string
	Day          string // local calendar day, YYYY-MM-DD
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationSecs int64
	IsActive     bool
}

// DayTotal is one day's aggregate, split by the active/passive flag.
type DayTotal struct {
	Day         string
	TotalSecs   int64
	ActiveSecs  int64
	PassiveSecs int64
}

// DayKey returns t's local calendar day in store key form.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}
