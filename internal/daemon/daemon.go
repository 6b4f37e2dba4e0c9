package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gofrs/flock"

	"fileconverser/internal/config"
	"fileconverser/internal/logging"
	"fileconverser/internal/prefs"
	"fileconverser/internal/workshop"
)

// Daemon serves the API and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *workshop.Engine
	prefs  *prefs.Store

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool   `json:"running"`
	Address      string `json:"address,omitempty"`
	LockFilePath string `json:"lock_file"`
	PrefsPath    string `json:"prefs_db,omitempty"`
	Blobs        int    `json:"blobs"`
	BlobBytes    int64  `json:"blob_bytes"`
	BlobSize     string `json:"blob_size"`
	LastEventSeq int64  `json:"last_event_seq"`
}

// New constructs a daemon. prefsStore may be nil, which disables the
// onboarding endpoints.
func New(cfg *config.Config, engine *workshop.Engine, prefsStore *prefs.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || engine == nil {
		return nil, errors.New("daemon requires config and engine")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		engine:   engine,
		prefs:    prefsStore,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg.Paths.APIBind, cfg.Paths.APIToken, d, logger)
	return d, nil
}

// Start acquires the instance lock and begins serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fileconverser server is already running for this state directory")
	}
	if err := d.api.start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}
	d.running.Store(true)
	d.logger.Info("fileconverser server started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.addr()))
	return nil
}

// Stop stops serving, waits for detached runs, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.api.stop()
	d.engine.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release server lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("fileconverser server stopped")
}

// Handler returns the API handler without binding a listener.
func (d *Daemon) Handler() http.Handler {
	return d.api.handler()
}

// Addr reports the bound address once started.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	count, size := d.engine.BlobStats()
	status := Status{
		Running:      d.running.Load(),
		Address:      d.api.addr(),
		LockFilePath: d.lockPath,
		Blobs:        count,
		BlobBytes:    size,
		BlobSize:     humanBytes(size),
		LastEventSeq: d.engine.LastEventSeq(),
	}
	if d.prefs != nil {
		status.PrefsPath = d.prefs.Path()
	}
	return status
}
