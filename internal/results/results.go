package results

import (
	"context"
	"database/sql"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Result is one completed play-through.
type Result struct {
	GameID    string `json:"gameId"`
	Player    string `json:"player"`
	Date      string `json:"date"`
	Attempts  int    `json:"attempts"`
	Wrong     int    `json:"wrong"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store reads and writes the results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r; a second record for the same game is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results(game_id, player, date, attempts, wrong, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.GameID, r.Player, r.Date, r.Attempts, r.Wrong, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the fastest completions for date. Ties go to fewer
// wrong guesses, then to whoever finished first. limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, player, date, attempts, wrong, elapsed_ms
		 FROM results
		 WHERE date=?
		 ORDER BY elapsed_ms ASC, wrong ASC, created_at ASC, rowid ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.GameID, &r.Player, &r.Date, &r.Attempts, &r.Wrong, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count is the number of recorded completions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM results`).Scan(&n)
	return n, err
}
