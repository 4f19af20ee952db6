package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"recruitscan-engine/internal/store"
)

type RunsHandler struct {
	DB *sql.DB
}

func (h RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_limit", "limit must be an integer")
			return
		}
		limit = n
	}
	runs, err := store.ListRuns(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	seen, err := store.SeenCount(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"runs":          runs,
		"profiles_seen": seen,
	})
}

// Latest returns the most recent run plus the page the next run should
// start from. current_page is the last fully completed page, so resume
// picks up at current_page + 1.
func (h RunsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	run, err := store.LatestRun(r.Context(), h.DB)
	if errors.Is(err, store.ErrNoRuns) {
		WriteError(w, r, http.StatusNotFound, "no_runs", "No runs recorded yet")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	next := run.StartPage
	if run.CurrentPage >= run.StartPage {
		next = run.CurrentPage + 1
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"run":             run,
		"next_start_page": next,
	})
}
