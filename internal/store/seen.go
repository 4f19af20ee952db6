package store

import (
	"context"
	"database/sql"
	"time"
)

// IsSeen reports whether a canonical profile URL was already processed by
// any run. Checked before spending a profile view on it.
func IsSeen(ctx context.Context, db *sql.DB, url string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM profiles_seen WHERE url = ? LIMIT 1;`, url).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkSeen records a profile URL and reports whether it was new. INSERT OR
// IGNORE keyed on the canonical URL makes re-runs skip profiles an earlier
// run already wrote.
func MarkSeen(ctx context.Context, db *sql.DB, url, runID string) (bool, error) {
	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO profiles_seen(url, run_id, seen_at)
VALUES(?,?,?);`,
		url, runID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func SeenCount(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles_seen;`).Scan(&n)
	return n, err
}
