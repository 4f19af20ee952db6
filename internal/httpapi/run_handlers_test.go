package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"recruitscan-engine/internal/scrape"
)

func newRunHandler(t *testing.T, run func(ctx context.Context, p scrape.Params) (scrape.Summary, error)) *RunHandler {
	t.Helper()
	var st atomic.Value
	st.Store(scrape.RunStatus{Status: scrape.StatusIdle})
	return &RunHandler{
		RunStatus: &st,
		Run:       run,
		Log:       zaptest.NewLogger(t),
	}
}

func TestRunHandlerStatusIdle(t *testing.T) {
	h := newRunHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/run/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"idle"`)
}

func TestRunHandlerStartDecodesParams(t *testing.T) {
	got := make(chan scrape.Params, 1)
	h := newRunHandler(t, func(ctx context.Context, p scrape.Params) (scrape.Summary, error) {
		got <- p
		return scrape.Summary{Status: scrape.StatusCompleted}, nil
	})

	body := `{"search_url":"https://x.test/search","start_page":3,"end_page":7,"output_dir":"/tmp/out"}`
	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/run/start", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case p := <-got:
		assert.Equal(t, "https://x.test/search", p.SearchURL)
		assert.Equal(t, 3, p.StartPage)
		assert.Equal(t, 7, p.EndPage)
		assert.Equal(t, "/tmp/out", p.OutputDir)
	case <-time.After(2 * time.Second):
		t.Fatal("run was never invoked")
	}
}

func TestRunHandlerStartRejectsUnknownFields(t *testing.T) {
	h := newRunHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/run/start",
		strings.NewReader(`{"search_url":"u","bogus":true}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunHandlerRejectsConcurrentStart(t *testing.T) {
	release := make(chan struct{})
	h := newRunHandler(t, func(ctx context.Context, p scrape.Params) (scrape.Summary, error) {
		<-release
		return scrape.Summary{}, nil
	})
	defer close(release)

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/run/start", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2 := httptest.NewRecorder()
	h.Start(rec2, httptest.NewRequest(http.MethodPost, "/run/start", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusConflict, rec2.Code)
}

func TestRunHandlerStopCancelsRun(t *testing.T) {
	stopped := make(chan struct{})
	h := newRunHandler(t, func(ctx context.Context, p scrape.Params) (scrape.Summary, error) {
		<-ctx.Done()
		close(stopped)
		return scrape.Summary{Status: scrape.StatusStopped}, nil
	})

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/run/start", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2 := httptest.NewRecorder()
	h.Stop(rec2, httptest.NewRequest(http.MethodPost, "/run/stop", nil))
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Contains(t, rec2.Body.String(), `"ok":true`)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation never reached the run")
	}
}

func TestRunHandlerStopWithoutRun(t *testing.T) {
	h := newRunHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Stop(rec, httptest.NewRequest(http.MethodPost, "/run/stop", nil))
	assert.Contains(t, rec.Body.String(), `"ok":false`)
}

func TestRunHandlerSetupFaultBecomesErrorStatus(t *testing.T) {
	h := newRunHandler(t, func(ctx context.Context, p scrape.Params) (scrape.Summary, error) {
		return scrape.Summary{Status: scrape.StatusError}, context.DeadlineExceeded
	})

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/run/start", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		st := h.RunStatus.Load().(scrape.RunStatus)
		return st.Status == scrape.StatusError
	}, 2*time.Second, 10*time.Millisecond)

	st := h.RunStatus.Load().(scrape.RunStatus)
	assert.NotEmpty(t, st.LastError)
}
