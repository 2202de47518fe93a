package store

import (
	"database/sql"
	"fmt"
)

// IncrementPomodoroDay bumps the completed counter for the given day.
// Live countdown state stays in memory; only completions survive restarts.
func (s *Store) IncrementPomodoroDay(day string) error {
	_, err := s.db.Exec(
		`INSERT INTO pomodoro_days (day, completed) VALUES (?, 1)
		 ON CONFLICT(day) DO UPDATE SET completed = completed + 1`,
		day,
	)
	if err != nil {
		return fmt.Errorf("increment pomodoro day %s: %w", day, err)
	}
	return nil
}

// PomodoroCompleted returns the number of pomodoros completed on day.
func (s *Store) PomodoroCompleted(day string) (int, error) {
	var completed int
	err := s.db.QueryRow(
		`SELECT completed FROM pomodoro_days WHERE day = ?`, day,
	).Scan(&completed)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("pomodoro completed %s: %w", day, err)
	}
	return completed, nil
}
