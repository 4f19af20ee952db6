package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Run struct {
	ID          string `json:"id"`
	SearchURL   string `json:"search_url"`
	StartPage   int    `json:"start_page"`
	EndPage     int    `json:"end_page"`
	CurrentPage int    `json:"current_page"`
	Status      string `json:"status"`
	OutputPath  string `json:"output_path"`
	RowsWritten int    `json:"rows_written"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at,omitempty"`
}

func InsertRun(ctx context.Context, db *sql.DB, r Run) error {
	if r.StartedAt == "" {
		r.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO runs(id, search_url, start_page, end_page, current_page, status, output_path, rows_written, error, started_at)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		r.ID, r.SearchURL, r.StartPage, r.EndPage, r.CurrentPage,
		r.Status, r.OutputPath, r.RowsWritten, r.Error, r.StartedAt,
	)
	return err
}

// UpdateRunProgress persists the page cursor after a page fully completes.
// This is what lets the operator resume at current_page + 1.
func UpdateRunProgress(ctx context.Context, db *sql.DB, id string, currentPage, rowsWritten int) error {
	_, err := db.ExecContext(ctx, `
UPDATE runs SET current_page = ?, rows_written = ? WHERE id = ?;`,
		currentPage, rowsWritten, id)
	return err
}

func FinishRun(ctx context.Context, db *sql.DB, id, status, errMsg string, rowsWritten int) error {
	_, err := db.ExecContext(ctx, `
UPDATE runs SET status = ?, error = ?, rows_written = ?, finished_at = ? WHERE id = ?;`,
		status, errMsg, rowsWritten, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func ListRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, search_url, start_page, end_page, current_page, status, output_path, rows_written, error, started_at, finished_at
FROM runs
ORDER BY started_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SearchURL, &r.StartPage, &r.EndPage, &r.CurrentPage,
			&r.Status, &r.OutputPath, &r.RowsWritten, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var ErrNoRuns = errors.New("store: no runs recorded")

// LatestRun is the resume hint: the shell shows its current_page so the
// operator knows where the next run should start.
func LatestRun(ctx context.Context, db *sql.DB) (Run, error) {
	runs, err := ListRuns(ctx, db, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}
