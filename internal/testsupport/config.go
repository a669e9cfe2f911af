// Package testsupport provides shared helpers for package tests: temp-dir
// backed configurations and history store setup.
package testsupport

import (
	"path/filepath"
	"testing"

	"lookout/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Notifications are disabled and snapshots are off unless an option says
// otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Store.HistoryDB = filepath.Join(base, "history.db")
	cfg.Snapshots.Dir = filepath.Join(base, "snapshots")
	cfg.Snapshots.Enabled = false
	cfg.Notify.Backend = "none"
	cfg.Camera.Device = filepath.Join(base, "video0")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithBackend selects the notification backend on the test config.
func WithBackend(backend string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notify.Backend = backend
	}
}

// WithRecipient appends a notification recipient to the test config.
func WithRecipient(name, address string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notify.Recipients = append(cfg.Notify.Recipients, config.Recipient{
			Name:    name,
			Address: address,
		})
	}
}

// WithSnapshots enables snapshot output on the test config.
func WithSnapshots() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Snapshots.Enabled = true
	}
}
