package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"recruitscan-engine/internal/config"
	"recruitscan-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value
}

func (h SecretsHandler) account() string {
	cfg, _ := h.CfgVal.Load().(config.Config)
	return cfg.Output.Airtable.KeyringAccount
}

func (h SecretsHandler) SetAirtable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey string `json:"api_key"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(body.APIKey) == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_key", "api_key is required")
		return
	}
	if err := secrets.SetAirtableKey(h.account(), body.APIKey); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (h SecretsHandler) DeleteAirtable(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteAirtableKey(h.account()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
