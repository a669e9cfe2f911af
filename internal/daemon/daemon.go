package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/process"

	"lookout/internal/api"
	"lookout/internal/capture"
	"lookout/internal/config"
	"lookout/internal/deps"
	"lookout/internal/detect/heuristic"
	"lookout/internal/logging"
	"lookout/internal/notify"
	"lookout/internal/preflight"
	"lookout/internal/sightings"
	"lookout/internal/snapshot"
	"lookout/internal/watch"
)

// Daemon coordinates the watch pipeline and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *sightings.Store
	logPath   string
	sessionID string

	lockPath string
	lock     *flock.Flock

	proc *process.Process

	// newSource is a seam for tests; defaults to capture.New.
	newSource func(*config.Config, *slog.Logger) (capture.Source, error)

	running atomic.Bool

	mu        sync.Mutex
	loop      *watch.Loop
	source    capture.Source
	monitor   *cameraMonitor
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedAt time.Time
}

// Status represents daemon runtime information.
type Status struct {
	Running          bool
	Paused           bool
	PID              int
	SessionID        string
	StartedAt        time.Time
	LockFilePath     string
	HistoryDBPath    string
	LogPath          string
	Watch            watch.Status
	Camera           preflight.CameraProbe
	CameraMonitoring bool
	Dependencies     []deps.Status
	RSSBytes         uint64
	CPUPercent       float64
}

// Option customizes daemon construction.
type Option func(*Daemon)

// WithSourceFactory overrides how the capture source is opened. Tests use it
// to substitute a stub source for the camera device.
func WithSourceFactory(fn func(*config.Config, *slog.Logger) (capture.Source, error)) Option {
	return func(d *Daemon) {
		if fn != nil {
			d.newSource = fn
		}
	}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *sightings.Store, logger *slog.Logger, logPath string, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	proc, _ := process.NewProcess(int32(os.Getpid()))
	lockPath := filepath.Join(cfg.Paths.LogDir, "lookoutd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		logPath:   logPath,
		sessionID: uuid.NewString(),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		proc:      proc,
		newSource: capture.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Start acquires the daemon lock, assembles the pipeline, and launches the
// watch loop in the background.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another lookout daemon instance is already running")
	}

	for _, result := range preflight.RunAll(ctx, d.cfg) {
		if result.Passed {
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"))
	}

	loop, source, err := d.buildPipeline()
	if err != nil {
		_ = d.lock.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	d.loop = loop
	d.source = source
	d.cancel = cancel
	d.startedAt = time.Now()
	d.monitor = newCameraMonitor(d.cfg, d.logger)
	monitor := d.monitor
	d.mu.Unlock()

	if err := monitor.Start(runCtx); err != nil {
		d.logger.Warn("camera monitor unavailable", logging.Error(err))
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if runErr := loop.Run(runCtx); runErr != nil {
			logging.ErrorWithContext(d.logger, "watch loop exited with error", "watch_loop_failed",
				logging.Error(runErr),
				logging.String(logging.FieldImpact, "detection stopped until daemon restart"))
		}
	}()

	d.running.Store(true)
	d.logger.Info("lookout daemon started",
		logging.String("lock", d.lockPath),
		logging.String(logging.FieldSessionID, d.sessionID),
		logging.String(logging.FieldDevice, d.cfg.DevicePath()))
	return nil
}

// buildPipeline wires the capture source, detector, recipient selector, and
// delivery backend into a watch loop.
func (d *Daemon) buildPipeline() (*watch.Loop, capture.Source, error) {
	sender, err := notify.FromConfig(d.cfg, d.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build notifier: %w", err)
	}

	selector, err := api.BuildSelector(d.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("build recipient selector: %w", err)
	}

	detector, err := heuristic.New(d.cfg.Detection.Methods, d.cfg.Detection.MinArea, d.cfg.Detection.AnalysisWidth)
	if err != nil {
		return nil, nil, fmt.Errorf("build detector: %w", err)
	}

	source, err := d.newSource(d.cfg, d.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open capture source: %w", err)
	}

	loopDeps := watch.Deps{
		Source:   source,
		Detector: detector,
		Selector: selector,
		Sender:   sender,
		Store:    d.store,
	}
	if d.cfg.Snapshots.Enabled {
		loopDeps.Snapshots = snapshot.NewWriter(d.cfg.Snapshots.Dir, d.cfg.Snapshots.ThumbnailWidth)
	}

	loop, err := watch.New(d.cfg, loopDeps, d.logger)
	if err != nil {
		_ = source.Close()
		return nil, nil, fmt.Errorf("build watch loop: %w", err)
	}
	return loop, source, nil
}

// Stop tears down the watch pipeline and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.mu.Lock()
	cancel := d.cancel
	monitor := d.monitor
	source := d.source
	d.cancel = nil
	d.monitor = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if monitor != nil {
		monitor.Stop()
	}
	d.wg.Wait()

	if source != nil {
		if err := source.Close(); err != nil {
			d.logger.Warn("close capture source", logging.Error(err))
		}
	}

	d.mu.Lock()
	d.loop = nil
	d.source = nil
	d.mu.Unlock()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("lookout daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Pause suspends detection without releasing the camera or the lock.
func (d *Daemon) Pause() bool {
	d.mu.Lock()
	loop := d.loop
	d.mu.Unlock()
	if loop == nil {
		return false
	}
	loop.Pause()
	d.logger.Info("detection paused", logging.String(logging.FieldEventType, "watch_paused"))
	return true
}

// Resume re-enables detection after a pause.
func (d *Daemon) Resume() bool {
	d.mu.Lock()
	loop := d.loop
	d.mu.Unlock()
	if loop == nil {
		return false
	}
	loop.Resume()
	d.logger.Info("detection resumed", logging.String(logging.FieldEventType, "watch_resumed"))
	return true
}

// TestNotification delivers a test message to one configured recipient using
// the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	return api.SendTestNotification(ctx, d.cfg, d.logger)
}

// RecentSightings returns the most recent recorded sightings.
func (d *Daemon) RecentSightings(ctx context.Context, limit int) ([]sightings.Sighting, error) {
	if d.store == nil {
		return nil, errors.New("sighting store unavailable")
	}
	return d.store.Recent(ctx, limit)
}

// SightingStats returns aggregate history statistics.
func (d *Daemon) SightingStats(ctx context.Context) (sightings.Stats, error) {
	if d.store == nil {
		return sightings.Stats{}, errors.New("sighting store unavailable")
	}
	return d.store.Stats(ctx)
}

// ClearHistory removes all recorded sightings.
func (d *Daemon) ClearHistory(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("sighting store unavailable")
	}
	return d.store.Clear(ctx)
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	d.mu.Lock()
	loop := d.loop
	monitor := d.monitor
	startedAt := d.startedAt
	d.mu.Unlock()

	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		SessionID:     d.sessionID,
		StartedAt:     startedAt,
		LockFilePath:  d.lockPath,
		HistoryDBPath: d.store.Path(),
		LogPath:       d.logPath,
		Camera:        preflight.ProbeCamera(d.cfg.DevicePath()),
		Dependencies:  preflight.CheckSystemDeps(ctx, d.cfg),
	}
	if loop != nil {
		status.Watch = loop.Status()
		status.Paused = status.Watch.Paused
	}
	if monitor != nil {
		status.CameraMonitoring = monitor.NetlinkActive()
	}
	if d.proc != nil {
		if mem, err := d.proc.MemoryInfo(); err == nil && mem != nil {
			status.RSSBytes = mem.RSS
		}
		if cpu, err := d.proc.CPUPercent(); err == nil {
			status.CPUPercent = cpu
		}
	}
	return status
}
