package preflight

import (
	"context"
	"path/filepath"

	"lookout/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("History directory", filepath.Dir(cfg.Store.HistoryDB)),
	}

	if cfg.Snapshots.Enabled {
		results = append(results, CheckDirectoryAccess("Snapshot directory", cfg.Snapshots.Dir))
	}

	results = append(results, CheckCameraDevice(cfg.DevicePath()))
	results = append(results, CheckNotifyBackend(ctx, cfg))
	return results
}
