package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hivemind-network/hivemind/internal/api"
	"github.com/hivemind-network/hivemind/internal/collective"
	"github.com/hivemind-network/hivemind/internal/evolution"
	"github.com/hivemind-network/hivemind/internal/infra/metrics"
	"github.com/hivemind-network/hivemind/internal/infra/sqlite"
	"github.com/hivemind-network/hivemind/internal/scenario"
)

// Daemon is the core Hivemind runtime. It wires together all services.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Intel   *collective.Intelligence
	Engine  *scenario.Engine
	Tracker *evolution.Tracker
	Server  *api.Server
	cancel  context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration. If the
// on-disk store cannot be opened, it degrades to an in-memory store with a
// logged warning rather than failing.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = hivemindHome()
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		log.Printf("[daemon] WARNING: cannot open store in %s: %v (falling back to in-memory)", dir, err)
		db, err = sqlite.OpenMemory()
		if err != nil {
			return nil, fmt.Errorf("open fallback store: %w", err)
		}
		metrics.StorageDegraded.Set(1)
	}

	intel := collective.New(db)
	engine := scenario.NewEngine()

	// The state cache lives next to the database; skip it in degraded mode.
	stateDir := dir
	if db.InMemory() {
		stateDir = ""
	}
	tracker := evolution.NewTracker(db, stateDir)

	srv := api.NewServer(db, intel, engine, tracker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Intel:   intel,
		Engine:  engine,
		Tracker: tracker,
		Server:  srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Hivemind serving on http://%s\n", addr)
	if d.DB.InMemory() {
		fmt.Println("  Storage: DEGRADED (in-memory, nothing persists)")
	}
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
