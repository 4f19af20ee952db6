package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitscan-engine/internal/store"
)

func newRunsHandler(t *testing.T) RunsHandler {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))
	return RunsHandler{DB: db.Pool}
}

func TestRunsListIncludesSeenCount(t *testing.T) {
	h := newRunsHandler(t)
	ctx := context.Background()

	require.NoError(t, store.InsertRun(ctx, h.DB, store.Run{
		ID: "r1", SearchURL: "https://x.test/search", StartPage: 1, EndPage: 3,
		Status: "running", OutputPath: "out.csv",
	}))
	_, err := store.MarkSeen(ctx, h.DB, "https://x.test/in/jane", "r1")
	require.NoError(t, err)
	_, err = store.MarkSeen(ctx, h.DB, "https://x.test/in/bob", "r1")
	require.NoError(t, err)
	// Duplicate must not inflate the count.
	_, err = store.MarkSeen(ctx, h.DB, "https://x.test/in/jane", "r1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Runs         []store.Run `json:"runs"`
		ProfilesSeen int         `json:"profiles_seen"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Runs, 1)
	assert.Equal(t, 2, body.ProfilesSeen)
}

func TestRunsListEmpty(t *testing.T) {
	h := newRunsHandler(t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Runs         []store.Run `json:"runs"`
		ProfilesSeen int         `json:"profiles_seen"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Runs)
	assert.Zero(t, body.ProfilesSeen)
}

func TestRunsLatestNotFound(t *testing.T) {
	h := newRunsHandler(t)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/runs/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
