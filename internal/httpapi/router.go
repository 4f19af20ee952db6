package httpapi

import "net/http"

// NewMux wires every endpoint the desktop shell talks to. Handlers that
// carry mutable state (RunHandler) are constructed once and shared.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	rh := &RunHandler{RunStatus: d.RunStatus, Run: d.Run, Log: d.Log}
	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
	runs := RunsHandler{DB: d.DB}
	ev := EventsHandler{Hub: d.Hub}
	sec := SecretsHandler{CfgVal: d.CfgVal}

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler,
	}))

	mux.HandleFunc("/run/start", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Start,
	}))
	mux.HandleFunc("/run/stop", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Stop,
	}))
	mux.HandleFunc("/run/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))

	mux.HandleFunc("/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: runs.List,
	}))
	mux.HandleFunc("/runs/latest", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: runs.Latest,
	}))

	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ch.Validate,
	}))

	mux.HandleFunc("/api/secrets/airtable", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sec.SetAirtable,
		http.MethodDelete: sec.DeleteAirtable,
	}))

	mux.HandleFunc("/events", ev.ServeSSE)

	return mux
}
