// Package analytics computes read-side views over stored segments.
// Everything here is pure: inputs in, derived values out, recomputed on
// every query so dashboards always see live data.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/krisk248/flowmode/internal/store"
)

// AppSummary is one row of the today view: per-app totals.
type AppSummary struct {
	AppName     string
	Category    string
	TotalSecs   int64
	ActiveSecs  int64
	PassiveSecs int64
	Percent     int // share of the day's tracked time
}

// DetailedEntry is one row of the per-title breakdown.
type DetailedEntry struct {
	AppName     string
	Category    string
	WindowTitle string
	TotalSecs   int64
}

// HourlyBucket holds one local-time hour's tracked seconds.
type HourlyBucket struct {
	Hour        int
	TotalSecs   int64
	ActiveSecs  int64
	PassiveSecs int64
}

// HistoryEntry is one day of the trailing history, zero-filled.
type HistoryEntry struct {
	Day       string
	TotalSecs int64
	Formatted string
}

// Split partitions tracked time by the active/passive flag.
type Split struct {
	ActiveSecs    int64
	PassiveSecs   int64
	ActivePercent int
}

// Summarize groups segments by app, sorted by duration descending with
// ties broken by app name.
func Summarize(segments []store.Segment) []AppSummary {
	byApp := make(map[string]*AppSummary)
	var total int64
	for _, seg := range segments {
		s, ok := byApp[seg.AppName]
		if !ok {
			s = &AppSummary{AppName: seg.AppName, Category: seg.Category}
			byApp[seg.AppName] = s
		}
		s.TotalSecs += seg.DurationSecs
		if seg.IsActive {
			s.ActiveSecs += seg.DurationSecs
		} else {
			s.PassiveSecs += seg.DurationSecs
		}
		total += seg.DurationSecs
	}

	out := make([]AppSummary, 0, len(byApp))
	for _, s := range byApp {
		if total > 0 {
			s.Percent = int((float64(s.TotalSecs)/float64(total))*100 + 0.5)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSecs != out[j].TotalSecs {
			return out[i].TotalSecs > out[j].TotalSecs
		}
		return out[i].AppName < out[j].AppName
	})
	return out
}

// Detailed groups segments by (app, window title) for the which-tab view.
func Detailed(segments []store.Segment) []DetailedEntry {
	type key struct{ app, title string }
	byKey := make(map[key]*DetailedEntry)
	for _, seg := range segments {
		k := key{seg.AppName, seg.WindowTitle}
		e, ok := byKey[k]
		if !ok {
			e = &DetailedEntry{AppName: seg.AppName, Category: seg.Category, WindowTitle: seg.WindowTitle}
			byKey[k] = e
		}
		e.TotalSecs += seg.DurationSecs
	}

	out := make([]DetailedEntry, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSecs != out[j].TotalSecs {
			return out[i].TotalSecs > out[j].TotalSecs
		}
		if out[i].AppName != out[j].AppName {
			return out[i].AppName < out[j].AppName
		}
		return out[i].WindowTitle < out[j].WindowTitle
	})
	return out
}

// Hourly distributes each segment's duration across the local-time hours
// it overlaps, proportionally, so a segment crossing an hour boundary
// does not spike into a single bucket. Always returns 24 buckets.
func Hourly(segments []store.Segment) []HourlyBucket {
	buckets := make([]HourlyBucket, 24)
	for i := range buckets {
		buckets[i].Hour = i
	}

	for _, seg := range segments {
		start := seg.StartedAt
		end := start.Add(time.Duration(seg.DurationSecs) * time.Second)
		for cur := start; cur.Before(end); {
			// Truncate works in absolute time, which lands mid-hour in
			// zones with fractional UTC offsets; build the boundary from
			// local wall-clock fields instead.
			y, mo, d := cur.Date()
			hourEnd := time.Date(y, mo, d, cur.Hour()+1, 0, 0, 0, cur.Location())
			sliceEnd := hourEnd
			if end.Before(hourEnd) {
				sliceEnd = end
			}
			secs := int64(sliceEnd.Sub(cur).Seconds())
			h := cur.Hour()
			buckets[h].TotalSecs += secs
			if seg.IsActive {
				buckets[h].ActiveSecs += secs
			} else {
				buckets[h].PassiveSecs += secs
			}
			cur = sliceEnd
		}
	}
	return buckets
}

// History returns one entry per day for the n days ending at today,
// oldest first. Days without segments appear with zero duration.
func History(totals []store.DayTotal, today time.Time, n int) []HistoryEntry {
	byDay := make(map[string]int64, len(totals))
	for _, t := range totals {
		byDay[t.Day] = t.TotalSecs
	}

	out := make([]HistoryEntry, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := store.DayKey(today.AddDate(0, 0, -i))
		secs := byDay[day]
		out = append(out, HistoryEntry{Day: day, TotalSecs: secs, Formatted: FormatDuration(secs)})
	}
	return out
}

// ActivePassive splits total tracked time by the segment activity flag.
func ActivePassive(segments []store.Segment) Split {
	var sp Split
	for _, seg := range segments {
		if seg.IsActive {
			sp.ActiveSecs += seg.DurationSecs
		} else {
			sp.PassiveSecs += seg.DurationSecs
		}
	}
	total := sp.ActiveSecs + sp.PassiveSecs
	if total > 0 {
		sp.ActivePercent = int((float64(sp.ActiveSecs)/float64(total))*100 + 0.5)
	}
	return sp
}

// FocusStreak returns the longest chain of back-to-back segments on the
// same app within a focus-eligible category. Segments chain when the gap
// between one's end and the next's start is at most gapTolerance, which
// callers derive from the poll interval.
func FocusStreak(segments []store.Segment, isFocus func(category string) bool, gapTolerance time.Duration) time.Duration {
	var best, current time.Duration
	var lastApp string
	var lastEnd time.Time

	for _, seg := range segments {
		if !isFocus(seg.Category) {
			if current > best {
				best = current
			}
			current = 0
			lastApp = ""
			continue
		}
		segDur := time.Duration(seg.DurationSecs) * time.Second
		if seg.AppName == lastApp && !lastEnd.IsZero() && seg.StartedAt.Sub(lastEnd) <= gapTolerance {
			current += segDur
		} else {
			if current > best {
				best = current
			}
			current = segDur
		}
		lastApp = seg.AppName
		lastEnd = seg.StartedAt.Add(segDur)
	}
	if current > best {
		best = current
	}
	return best
}

// FormatDuration renders seconds as "2h 15m", "15m" or "30s".
func FormatDuration(secs int64) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
