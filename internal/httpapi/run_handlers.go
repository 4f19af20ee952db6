package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"recruitscan-engine/internal/scrape"
)

type RunHandler struct {
	RunStatus *atomic.Value // scrape.RunStatus
	Run       func(ctx context.Context, p scrape.Params) (scrape.Summary, error)
	Log       *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (h *RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.RunStatus.Load().(scrape.RunStatus)
	writeJSON(w, st)
}

func (h *RunHandler) Start(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var p scrape.Params
	if err := dec.Decode(&p); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.RunStatus.Load().(scrape.RunStatus)
	if st.Status == scrape.StatusRunning {
		WriteJSON(w, http.StatusConflict, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.RunStatus.Store(scrape.RunStatus{Status: scrape.StatusRunning, SearchURL: p.SearchURL})

	go func() {
		defer func() {
			h.mu.Lock()
			h.cancel = nil
			h.mu.Unlock()
			cancel()
		}()
		if _, err := h.Run(ctx, p); err != nil {
			h.Log.Error("run failed", zap.Error(err))
			// the runner's status callback may not have fired for setup faults
			st := h.RunStatus.Load().(scrape.RunStatus)
			if st.Status == scrape.StatusRunning {
				st.Status = scrape.StatusError
				st.LastError = err.Error()
				h.RunStatus.Store(st)
			}
		}
	}()

	writeJSON(w, map[string]any{"ok": true})
}

func (h *RunHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel == nil {
		writeJSON(w, map[string]any{"ok": false, "msg": "not running"})
		return
	}
	// Cancellation is observed between profiles, never mid row write.
	h.cancel()
	h.cancel = nil
	writeJSON(w, map[string]any{"ok": true})
}
