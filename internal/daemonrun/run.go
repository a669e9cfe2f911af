// Package daemonrun holds the lookoutd process lifecycle: logging setup, pid
// file management, the IPC server, and signal-driven shutdown.
package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"lookout/internal/config"
	"lookout/internal/daemon"
	"lookout/internal/ipc"
	"lookout/internal/logging"
	"lookout/internal/sightings"
)

// Options tweaks the run behavior beyond what config carries.
type Options struct {
	LogLevel    string
	SocketPath  string
	Development bool
}

// Run executes the daemon until the context is cancelled or a termination
// signal arrives. The watch loop starts immediately; start failures (no
// camera, bad notify config) are logged and left for a later IPC Start.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return errors.New("configuration is required")
	}

	signalCtx, stop := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("lookout-%s.log", runID))

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		logger.Warn("unable to update current log pointer", logging.Error(err))
	}

	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: "lookout-*.log",
		Exclude: []string{logPath},
	})

	pidPath := filepath.Join(cfg.Paths.LogDir, "lookout.pid")
	if err := writePIDFile(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove pid file", logging.String("path", pidPath), logging.Error(err))
		}
	}()

	store, err := sightings.Open(cfg)
	if err != nil {
		return fmt.Errorf("open sighting store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close sighting store", logging.Error(err))
		}
	}()

	if cfg.Store.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.Store.RetentionDays)
		if removed, pruneErr := store.PruneOlderThan(signalCtx, cutoff); pruneErr != nil {
			logger.Warn("failed to prune sighting history", logging.Error(pruneErr))
		} else if removed > 0 {
			logger.Info("pruned old sightings", logging.Int64("removed", removed))
		}
	}

	logDependencySnapshot(logger, cfg)

	d, err := daemon.New(cfg, store, logger, logPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("daemon shutdown error", logging.Error(err))
		}
	}()

	socketPath := opts.SocketPath
	if socketPath == "" {
		socketPath = filepath.Join(cfg.Paths.LogDir, "lookout.sock")
	}
	server, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer server.Close()
	server.Serve()

	logger.Info("lookoutd started",
		logging.String("run_id", runID),
		logging.String("socket", socketPath),
		logging.String("log_file", logPath),
		logging.Int("pid", os.Getpid()))

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("watch loop not started, waiting for start request", logging.Error(err))
	}

	<-signalCtx.Done()
	logger.Info("shutdown signal received")
	return nil
}

// ensureCurrentLogPointer makes LogDir/lookout.log reference the active run's
// log file. Symlink first; hard link as fallback for filesystems without
// symlink support.
func ensureCurrentLogPointer(logDir, logPath string) error {
	pointer := filepath.Join(logDir, "lookout.log")
	if err := os.Remove(pointer); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove previous log pointer: %w", err)
	}
	if err := os.Symlink(filepath.Base(logPath), pointer); err == nil {
		return nil
	}
	if err := os.Link(logPath, pointer); err != nil {
		return fmt.Errorf("link current log file: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pid+"\n"), 0o644); err != nil {
		return fmt.Errorf("write pid file %q: %w", path, err)
	}
	return nil
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	binaries := []string{cfg.FFmpegBinary()}
	if cfg.Notify.Backend == "messages" {
		binaries = append(binaries, cfg.OsascriptBinary())
	}
	for _, bin := range binaries {
		if path, err := exec.LookPath(bin); err == nil {
			logger.Info("dependency available", logging.String("binary", bin), logging.String("path", path))
		} else {
			logger.Warn("dependency missing", logging.String("binary", bin))
		}
	}
}
