package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitscan-engine/internal/config"
)

func baseConfig() config.Config {
	var cfg config.Config
	cfg.App.Port = 38471
	cfg.Search.StartPage = 1
	cfg.Search.EndPage = 5
	cfg.Search.ProfilesPerPage = 25
	cfg.Filters.GradYearMin = 2010
	cfg.Filters.GradYearMax = 2024
	cfg.Filters.ExcludeTitles = []string{"Director"}
	cfg.Browser.CDPURL = "http://localhost:9222"
	cfg.Browser.NavTimeoutSecs = 30
	cfg.Browser.NavPerMinute = 10
	return cfg
}

func newConfigHandler(t *testing.T) (ConfigHandler, *atomic.Value) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	var val atomic.Value
	val.Store(baseConfig())
	return ConfigHandler{
		CfgVal:      &val,
		UserCfgPath: path,
		LoadCfg:     func() (config.Config, error) { return config.Load(path) },
	}, &val
}

func TestConfigHandlerGet(t *testing.T) {
	h, _ := newConfigHandler(t)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 38471, got.App.Port)
}

func TestConfigHandlerPutPersistsAndReloads(t *testing.T) {
	h, val := newConfigHandler(t)

	next := baseConfig()
	next.Filters.GradYearMax = 2025
	body, err := json.Marshal(next)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Put(rec, httptest.NewRequest(http.MethodPut, "/config", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Stored in memory and written to disk.
	stored := val.Load().(config.Config)
	assert.Equal(t, 2025, stored.Filters.GradYearMax)

	onDisk, err := config.Load(h.UserCfgPath)
	require.NoError(t, err)
	assert.Equal(t, 2025, onDisk.Filters.GradYearMax)
}

func TestConfigHandlerPutRejectsInvalid(t *testing.T) {
	h, val := newConfigHandler(t)

	bad := baseConfig()
	bad.Browser.CDPURL = ""
	body, err := json.Marshal(bad)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Put(rec, httptest.NewRequest(http.MethodPut, "/config", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cdp_url")

	// The in-memory config is untouched.
	assert.Equal(t, "http://localhost:9222", val.Load().(config.Config).Browser.CDPURL)
}

func TestConfigHandlerPutRejectsUnknownFields(t *testing.T) {
	h, _ := newConfigHandler(t)

	rec := httptest.NewRecorder()
	h.Put(rec, httptest.NewRequest(http.MethodPut, "/config",
		bytes.NewReader([]byte(`{"nope":1}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigHandlerPath(t *testing.T) {
	h, _ := newConfigHandler(t)

	rec := httptest.NewRecorder()
	h.Path(rec, httptest.NewRequest(http.MethodGet, "/config/path", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "config.yml")
}
