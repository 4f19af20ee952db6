package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"go.uber.org/zap"

	"recruitscan-engine/internal/config"
	"recruitscan-engine/internal/events"
	"recruitscan-engine/internal/scrape"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *zap.Logger

	// Atomic stores
	CfgVal    *atomic.Value // stores config.Config
	RunStatus *atomic.Value // stores scrape.RunStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Run entrypoint (inject for testability)
	Run func(ctx context.Context, p scrape.Params) (scrape.Summary, error)
}
