package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"lookout/internal/config"
)

func TestLoadWithoutRecipientsIsFatal(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for default config without recipients")
	}
	if !strings.Contains(err.Error(), "notify.recipient") {
		t.Fatalf("expected recipient guidance in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "config init") {
		t.Fatalf("expected config init hint in error, got %v", err)
	}
}

func TestLoadDefaultsExpandPathsAndBackfill(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configDir := filepath.Join(tempHome, ".config", "lookout")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	body := `
[[notify.recipient]]
name = "Me"
address = "+15551234567"
`
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if !exists {
		t.Fatal("expected default config file to be found")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "lookout", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Store.HistoryDB != filepath.Join(tempHome, ".local", "share", "lookout", "history.db") {
		t.Fatalf("unexpected history db: %q", cfg.Store.HistoryDB)
	}
	if cfg.Camera.Backend != "auto" {
		t.Fatalf("unexpected camera backend: %q", cfg.Camera.Backend)
	}
	if cfg.DevicePath() != "/dev/video0" {
		t.Fatalf("unexpected device path: %q", cfg.DevicePath())
	}
	if cfg.Detection.Confidence != 0.5 {
		t.Fatalf("unexpected confidence default: %v", cfg.Detection.Confidence)
	}
	if len(cfg.Detection.Methods) != 3 {
		t.Fatalf("expected all detection methods by default, got %v", cfg.Detection.Methods)
	}
	if _, ok := cfg.ROI(); ok {
		t.Fatal("expected no region of interest by default")
	}
	if cfg.Cooldown() != 60*time.Second {
		t.Fatalf("unexpected cooldown: %v", cfg.Cooldown())
	}
	if cfg.Notify.Selection != "fixed" {
		t.Fatalf("unexpected selection default: %q", cfg.Notify.Selection)
	}
	if cfg.Notify.Message == "" {
		t.Fatal("expected default notification message")
	}
	if cfg.OsascriptBinary() != "osascript" {
		t.Fatalf("unexpected osascript binary: %q", cfg.OsascriptBinary())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("expected log dir to be created: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lookout.toml")
	body := `
[camera]
index = 2
backend = "ffmpeg"

[detection]
confidence = 0.75
methods = ["Edges", "edges", "color"]
region_of_interest = [10, 20, 100, 80]

[notify]
backend = "ntfy"
cooldown_seconds = 0
selection = "random"

[[notify.recipient]]
name = "Ops"
address = "ops@example.com"

[notify.ntfy]
topic = "https://ntfy.sh/lookout-test"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.DevicePath() != "/dev/video2" {
		t.Fatalf("unexpected device path: %q", cfg.DevicePath())
	}
	if cfg.Camera.Backend != "ffmpeg" {
		t.Fatalf("unexpected backend: %q", cfg.Camera.Backend)
	}
	if cfg.Detection.Confidence != 0.75 {
		t.Fatalf("unexpected confidence: %v", cfg.Detection.Confidence)
	}
	if len(cfg.Detection.Methods) != 2 {
		t.Fatalf("expected duplicate methods collapsed, got %v", cfg.Detection.Methods)
	}
	roi, ok := cfg.ROI()
	if !ok {
		t.Fatal("expected region of interest")
	}
	if roi.Min.X != 10 || roi.Min.Y != 20 || roi.Dx() != 100 || roi.Dy() != 80 {
		t.Fatalf("unexpected roi: %v", roi)
	}
	if cfg.Cooldown() != 0 {
		t.Fatalf("expected zero cooldown, got %v", cfg.Cooldown())
	}
	if cfg.Notify.Selection != "random" {
		t.Fatalf("unexpected selection: %q", cfg.Notify.Selection)
	}
}

func TestEnvVarBackfillsTelegramToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lookout.toml")
	body := `
[notify]
backend = "telegram"

[[notify.recipient]]
name = "Me"
address = "123456789"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("LOOKOUT_TELEGRAM_TOKEN", "env-token")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notify.Telegram.Token != "env-token" {
		t.Fatalf("expected token from env, got %q", cfg.Notify.Telegram.Token)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(content), "[detection]") {
		t.Fatalf("expected detection section in sample, got %q", content)
	}

	var cfg config.Config
	if err := toml.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*config.Config)
		fragment string
	}{
		{
			name:     "confidence out of range",
			mutate:   func(cfg *config.Config) { cfg.Detection.Confidence = 1.5 },
			fragment: "detection.confidence",
		},
		{
			name:     "negative cooldown",
			mutate:   func(cfg *config.Config) { cfg.Notify.CooldownSeconds = -1 },
			fragment: "notify.cooldown_seconds",
		},
		{
			name:     "unknown selection",
			mutate:   func(cfg *config.Config) { cfg.Notify.Selection = "round-robin" },
			fragment: "notify.selection",
		},
		{
			name:     "unknown backend",
			mutate:   func(cfg *config.Config) { cfg.Notify.Backend = "carrier-pigeon" },
			fragment: "notify.backend",
		},
		{
			name:     "missing recipients",
			mutate:   func(cfg *config.Config) { cfg.Notify.Recipients = nil },
			fragment: "notify.recipient",
		},
		{
			name: "recipient without address",
			mutate: func(cfg *config.Config) {
				cfg.Notify.Recipients = []config.Recipient{{Name: "Me"}}
			},
			fragment: "address",
		},
		{
			name:     "bad roi length",
			mutate:   func(cfg *config.Config) { cfg.Detection.RegionOfInterest = []int{1, 2, 3} },
			fragment: "region_of_interest",
		},
		{
			name:     "bad messages service",
			mutate:   func(cfg *config.Config) { cfg.Notify.Messages.Service = "carrier" },
			fragment: "notify.messages.service",
		},
		{
			name: "telegram without token",
			mutate: func(cfg *config.Config) {
				cfg.Notify.Backend = "telegram"
				cfg.Notify.Telegram.Token = ""
			},
			fragment: "notify.telegram.token",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Notify.Recipients = []config.Recipient{{Name: "Me", Address: "+15551234567"}}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected %q in error, got %v", tc.fragment, err)
			}
		})
	}
}

func TestValidateAllowsBackendNoneWithoutRecipients(t *testing.T) {
	cfg := config.Default()
	cfg.Notify.Backend = "none"
	cfg.Notify.Recipients = nil
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected backend none to validate without recipients: %v", err)
	}
}
