package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"galleria/internal/cleanup"
	"galleria/internal/config"
	"galleria/internal/enrich"
	"galleria/internal/logging"
	"galleria/internal/quarantine"
	"galleria/internal/scheduler"
	"galleria/internal/store"
	"galleria/internal/tagging"
)

// Daemon wires the maintenance sources into a scheduler loop and enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	loop   *scheduler.Loop

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a daemon with its full source pipeline. The tag inference
// client is only wired when tagging is enabled in configuration.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	var inferrer quarantine.TagInferrer
	if cfg.Tagging.Enabled {
		inferrer = tagging.NewClient(cfg.Tagging)
	}

	selector := scheduler.NewSelector(
		quarantine.New(cfg, st, inferrer, logging.NewComponentLogger(logger, "quarantine")),
		enrich.New(cfg, st, inferrer, logging.NewComponentLogger(logger, "tagging")),
		scheduler.Gate(
			cleanup.New(cfg, st, logging.NewComponentLogger(logger, "cleanup")),
			time.Duration(cfg.Scheduler.CleanupIntervalSeconds)*time.Second,
			nil,
		),
	)

	lockPath := filepath.Join(cfg.Paths.LogDir, "galleriad.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		loop:     scheduler.NewLoop(cfg, selector, logging.NewComponentLogger(logger, "scheduler")),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the scheduler loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another galleria daemon instance is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		_ = d.loop.Run(loopCtx)
	}()

	d.running.Store(true)
	d.logger.Info("galleria daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.store.Path()),
		logging.Bool("tagging", d.cfg.Tagging.Enabled))
	return nil
}

// Stop halts the scheduler loop and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("galleria daemon stopped")
}

// Running reports whether the scheduler loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
