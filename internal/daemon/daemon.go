package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/swipedeck/swipedeck/internal/api"
	"github.com/swipedeck/swipedeck/internal/app/gamify"
	"github.com/swipedeck/swipedeck/internal/app/queue"
	"github.com/swipedeck/swipedeck/internal/infra/ingest"
	"github.com/swipedeck/swipedeck/internal/infra/sqlite"
)

// Daemon wires storage, the queue processor, and the HTTP API into one
// long-running process.
type Daemon struct {
	Config    Config
	DB        *sqlite.DB
	Processor *queue.Processor
	Hub       *api.Hub
	Server    *api.Server
	Log       *zap.Logger

	cancel context.CancelFunc
}

// Version is stamped by the build; the daemon only reports it.
var Version = "dev"

// New creates a daemon from the on-disk config.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a daemon with an explicit config.
func NewWithConfig(cfg Config) (*Daemon, error) {
	log, err := buildLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	cat := gamify.DefaultCatalog()
	if cfg.Engine.CatalogFile != "" {
		cat, err = gamify.LoadCatalog(cfg.Engine.CatalogFile)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	hub := api.NewHub(log)
	proc, err := queue.New(db, db, cat, queue.Options{
		BatchSize: cfg.Engine.BatchSize,
		Notifier:  hub,
		Logger:    log,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init processor: %w", err)
	}

	scanner := ingest.NewFeedScanner(&http.Client{
		Timeout: time.Duration(cfg.Ingest.TimeoutSeconds) * time.Second,
	})

	engine := api.NewEngineAPI(proc, db, scanner, log)
	server := api.NewServer(engine, hub, Version)
	if cfg.Telemetry.Metrics {
		server.EnableMetrics()
	}

	return &Daemon{
		Config:    cfg,
		DB:        db,
		Processor: proc,
		Hub:       hub,
		Server:    server,
		Log:       log,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.Server.Host, d.Config.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // long for the websocket feed
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	d.Log.Info("swipedeck serving",
		zap.String("addr", addr),
		zap.Bool("metrics", d.Config.Telemetry.Metrics))
	fmt.Printf("SwipeDeck serving on http://%s\n", addr)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Log != nil {
		_ = d.Log.Sync()
	}
}

// buildLogger configures structured logging per the config: JSON to
// stderr, optionally teed to a file.
func buildLogger(cfg LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()

	var level zapcore.Level
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err == nil {
			zc.OutputPaths = append(zc.OutputPaths, cfg.File)
		}
	}
	return zc.Build()
}
