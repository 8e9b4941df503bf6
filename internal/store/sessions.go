package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/pomo/internal/pomo"
)

// LoadSessions returns the focus session log in append order.
func (s *Store) LoadSessions() ([]pomo.FocusSession, error) {
	rows, err := s.db.Query(`SELECT timestamp, duration, interruptions FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []pomo.FocusSession
	for rows.Next() {
		var fs pomo.FocusSession
		var ts int64
		if err := rows.Scan(&ts, &fs.Duration, &fs.Interruptions); err != nil {
			return nil, err
		}
		fs.Timestamp = fromMillis(ts)
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}

// SaveSessions replaces the stored session log with sessions.
func (s *Store) SaveSessions(sessions []pomo.FocusSession) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
			return fmt.Errorf("clear sessions: %w", err)
		}
		stmt, err := tx.Prepare(`INSERT INTO sessions (timestamp, duration, interruptions) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare session insert: %w", err)
		}
		defer stmt.Close()
		for _, fs := range sessions {
			if _, err := stmt.Exec(toMillis(fs.Timestamp), fs.Duration, fs.Interruptions); err != nil {
				return fmt.Errorf("insert session: %w", err)
			}
		}
		return nil
	})
}

// GetSessionStats sums the sessions logged in [from, to).
func (s *Store) GetSessionStats(from, to time.Time) (SessionStats, error) {
	var st SessionStats
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration), 0), COALESCE(SUM(interruptions), 0)
		FROM sessions
		WHERE timestamp >= ? AND timestamp < ?`,
		from.UnixMilli(), to.UnixMilli(),
	).Scan(&st.Count, &st.Minutes, &st.Interruptions)
	if err != nil {
		return st, fmt.Errorf("session stats: %w", err)
	}
	return st, nil
}
