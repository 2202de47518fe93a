package store

import (
	"database/sql"
	"fmt"
	"time"
)

// StartSegment inserts a new open segment starting at now with zero
// accumulated duration.
func (s *Store) StartSegment(appName, category, windowTitle string, isActive bool, now time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO segments (app_name, category, window_title, day, started_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		appName, category, windowTitle, DayKey(now), now.Format(time.RFC3339), boolToInt(isActive),
	)
	if err != nil {
		return 0, fmt.Errorf("start segment: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// ExtendSegment adds deltaSecs to an open segment's accumulated duration
// and refreshes its best-known window title. Repeated calls are the only
// way a segment's duration ever changes, so a single writer makes the
// increment race-free.
func (s *Store) ExtendSegment(id, deltaSecs int64, windowTitle string) error {
	if deltaSecs < 0 {
		return fmt.Errorf("extend segment %d: negative delta %d", id, deltaSecs)
	}
	_, err := s.db.Exec(
		`UPDATE segments SET duration_secs = duration_secs + ?, window_title = ? WHERE id = ?`,
		deltaSecs, windowTitle, id,
	)
	if err != nil {
		return fmt.Errorf("extend segment %d: %w", id, err)
	}
	return nil
}

// CloseSegment stamps the segment's end time. Duration is already
// persisted incrementally, so this is bookkeeping, not accounting.
func (s *Store) CloseSegment(id int64, now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE segments SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		now.Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("close segment %d: %w", id, err)
	}
	return nil
}

// CloseOrphanSegments stamps an end time on segments left open by a
// previous run. Each orphan is closed at started_at + flushed duration,
// not at "now", so a crash days ago cannot inflate its day.
func (s *Store) CloseOrphanSegments() (int, error) {
	rows, err := s.db.Query(`SELECT id, started_at, duration_secs FROM segments WHERE ended_at IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("list orphan segments: %w", err)
	}
	type orphan struct {
		id      int64
		started string
		secs    int64
	}
	var orphans []orphan
	for rows.Next() {
		var o orphan
		if err := rows.Scan(&o.id, &o.started, &o.secs); err != nil {
			rows.Close()
			return 0, err
		}
		orphans = append(orphans, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, o := range orphans {
		started, err := time.Parse(time.RFC3339, o.started)
		if err != nil {
			started = time.Now()
		}
		end := started.Add(time.Duration(o.secs) * time.Second)
		if _, err := s.db.Exec(
			`UPDATE segments SET ended_at = ? WHERE id = ?`,
			end.Format(time.RFC3339), o.id,
		); err != nil {
			return 0, fmt.Errorf("close orphan segment %d: %w", o.id, err)
		}
	}
	return len(orphans), nil
}

// OpenSegment returns the currently open segment, or nil when none is.
func (s *Store) OpenSegment() (*Segment, error) {
	row := s.db.QueryRow(
		`SELECT id, app_name, category, window_title, day, started_at, ended_at, duration_secs, is_active
		 FROM segments WHERE ended_at IS NULL ORDER BY id DESC LIMIT 1`,
	)
	seg, err := scanSegment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get open segment: %w", err)
	}
	return seg, nil
}

// GetSegment fetches one segment by id.
func (s *Store) GetSegment(id int64) (*Segment, error) {
	row := s.db.QueryRow(
		`SELECT id, app_name, category, window_title, day, started_at, ended_at, duration_secs, is_active
		 FROM segments WHERE id = ?`, id,
	)
	seg, err := scanSegment(row)
	if err != nil {
		return nil, fmt.Errorf("get segment %d: %w", id, err)
	}
	return seg, nil
}

// QueryDay returns all segments for one local calendar day, ordered by
// start time.
func (s *Store) QueryDay(day string) ([]Segment, error) {
	return s.querySegments(
		`SELECT id, app_name, category, window_title, day, started_at, ended_at, duration_secs, is_active
		 FROM segments WHERE day = ? ORDER BY started_at, id`, day,
	)
}

// QueryRange returns segments for days in [fromDay, toDay], ordered by
// start time.
func (s *Store) QueryRange(fromDay, toDay string) ([]Segment, error) {
	return s.querySegments(
		`SELECT id, app_name, category, window_title, day, started_at, ended_at, duration_secs, is_active
		 FROM segments WHERE day >= ? AND day <= ? ORDER BY started_at, id`, fromDay, toDay,
	)
}

// DailyTotals returns one aggregate row per day that has segments in
// [fromDay, toDay]. Days without data are absent; the aggregation layer
// zero-fills.
func (s *Store) DailyTotals(fromDay, toDay string) ([]DayTotal, error) {
	rows, err := s.db.Query(`
		SELECT day,
		       COALESCE(SUM(duration_secs), 0),
		       COALESCE(SUM(CASE WHEN is_active = 1 THEN duration_secs ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN is_active = 0 THEN duration_secs ELSE 0 END), 0)
		FROM segments
		WHERE day >= ? AND day <= ?
		GROUP BY day
		ORDER BY day`,
		fromDay, toDay,
	)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DayTotal
	for rows.Next() {
		var t DayTotal
		if err := rows.Scan(&t.Day, &t.TotalSecs, &t.ActiveSecs, &t.PassiveSecs); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// DayTotalSecs returns the summed tracked seconds for one day.
func (s *Store) DayTotalSecs(day string) (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(duration_secs), 0) FROM segments WHERE day = ?`, day,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("day total: %w", err)
	}
	return total.Int64, nil
}

// ResetDay deletes all segments for the given day in one transaction, so
// a crash mid-delete cannot leave partial data behind.
func (s *Store) ResetDay(day string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("reset day %s: %w", day, err)
	}
	if _, err := tx.Exec(`DELETE FROM segments WHERE day = ?`, day); err != nil {
		tx.Rollback()
		return fmt.Errorf("reset day %s: %w", day, err)
	}
	if _, err := tx.Exec(`DELETE FROM pomodoro_days WHERE day = ?`, day); err != nil {
		tx.Rollback()
		return fmt.Errorf("reset day %s: %w", day, err)
	}
	return tx.Commit()
}

func (s *Store) querySegments(query string, args ...any) ([]Segment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, *seg)
	}
	return segments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSegment(row rowScanner) (*Segment, error) {
	seg := &Segment{}
	var startedAt string
	var endedAt sql.NullString
	var isActive int
	err := row.Scan(
		&seg.ID, &seg.AppName, &seg.Category, &seg.WindowTitle, &seg.Day,
		&startedAt, &endedAt, &seg.DurationSecs, &isActive,
	)
	if err != nil {
		return nil, err
	}
	seg.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(time.RFC3339, endedAt.String)
		seg.EndedAt = &t
	}
	seg.IsActive = isActive == 1
	return seg, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
