package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recruitscan-engine/internal/browser"
	"recruitscan-engine/internal/config"
	"recruitscan-engine/internal/events"
	"recruitscan-engine/internal/httpapi"
	"recruitscan-engine/internal/logger"
	"recruitscan-engine/internal/scheduler"
	"recruitscan-engine/internal/scrape"
	"recruitscan-engine/internal/store"
)

func main() {
	// .env is optional; real deployments pass env through the shell.
	_ = godotenv.Load()

	log := logger.New(os.Getenv("RECRUITSCAN_LOG_LEVEL"), os.Getenv("RECRUITSCAN_LOG_FORMAT"))
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("engine exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	// Engine data dir: use env if provided (the shell can pass one), else local folder.
	dataDir := os.Getenv("RECRUITSCAN_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// Two engines sharing one data dir would race on the db and the seen set.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data dir lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine instance owns %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	// Load config and keep it reloadable.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		norm, v := config.NormalizeAndValidate(cfg)
		if !v.OK() {
			return cfg, fmt.Errorf("invalid config %s: %v", userCfgPath, v.Errors)
		}
		for _, w := range v.Warnings {
			log.Warn("config warning", zap.String("warning", w))
		}
		return norm, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return err
	}
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "recruitscan.db"))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}

	hub := events.NewHub()

	var runStatus atomic.Value // stores scrape.RunStatus
	runStatus.Store(scrape.RunStatus{Status: scrape.StatusIdle})

	runner := &scrape.Runner{
		Cfg: cfg,
		DB:  db.Pool,
		Hub: hub,
		Log: log,
		NewBrowser: func(ctx context.Context) (browser.Controller, error) {
			c := cfgVal.Load().(config.Config)
			return browser.NewRemote(ctx, c.Browser.CDPURL,
				time.Duration(c.Browser.NavTimeoutSecs)*time.Second)
		},
		OnStatus: func(st scrape.RunStatus) { runStatus.Store(st) },
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Log:         log,
		CfgVal:      &cfgVal,
		RunStatus:   &runStatus,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Run: func(ctx context.Context, p scrape.Params) (scrape.Summary, error) {
			// Each run sees the freshest saved config.
			runner.Cfg = cfgVal.Load().(config.Config)
			return runner.Run(ctx, p)
		},
	})

	handler := httpapi.Chain(mux,
		httpapi.Cors,
		httpapi.RequestID,
		httpapi.Recover(log),
		httpapi.AccessLog(log),
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	log.Info("engine listening",
		zap.String("addr", "http://"+addr),
		zap.String("config", userCfgPath),
		zap.String("data_dir", dataDir),
	)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Heartbeat keeps SSE proxies from timing out idle streams.
		scheduler.Every(ctx, 15*time.Second, "sse-ping", log, func(context.Context) error {
			hub.Publish(events.MakeEvent("", events.TypePing, 1, nil))
			return nil
		})
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("engine stopped")
	return nil
}
