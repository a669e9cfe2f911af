package preflight

import (
	"context"
	"path/filepath"
	"testing"

	"lookout/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if res := CheckDirectoryAccess("Log directory", dir); !res.Passed {
		t.Fatalf("expected pass for writable dir, got %+v", res)
	}
	if res := CheckDirectoryAccess("Log directory", filepath.Join(dir, "missing")); res.Passed {
		t.Fatalf("expected failure for missing dir, got %+v", res)
	}
}

func TestCheckCameraDeviceMissing(t *testing.T) {
	res := CheckCameraDevice(filepath.Join(t.TempDir(), "video99"))
	if res.Passed {
		t.Fatalf("expected failure for absent device, got %+v", res)
	}
}

func TestCheckNotifyBackend(t *testing.T) {
	cfg := config.Default()

	cfg.Notify.Backend = "none"
	if res := CheckNotifyBackend(context.Background(), &cfg); !res.Passed {
		t.Fatalf("disabled backend must pass, got %+v", res)
	}

	cfg.Notify.Backend = "telegram"
	if res := CheckNotifyBackend(context.Background(), &cfg); res.Passed {
		t.Fatalf("telegram without token must fail, got %+v", res)
	}
	cfg.Notify.Telegram.Token = "123:abc"
	if res := CheckNotifyBackend(context.Background(), &cfg); !res.Passed {
		t.Fatalf("telegram with token must pass, got %+v", res)
	}

	cfg.Notify.Backend = "ntfy"
	cfg.Notify.Ntfy.Topic = "not a url"
	if res := CheckNotifyBackend(context.Background(), &cfg); res.Passed {
		t.Fatalf("malformed ntfy topic must fail, got %+v", res)
	}
	cfg.Notify.Ntfy.Topic = "https://ntfy.sh/lookout-alerts"
	if res := CheckNotifyBackend(context.Background(), &cfg); !res.Passed {
		t.Fatalf("valid ntfy topic must pass, got %+v", res)
	}
}

func TestProbeCameraAbsent(t *testing.T) {
	probe := ProbeCamera(filepath.Join(t.TempDir(), "video99"))
	if probe.Detected {
		t.Fatalf("expected no detection, got %+v", probe)
	}
	if probe.CameraDetail() != "No camera detected" {
		t.Fatalf("unexpected detail %q", probe.CameraDetail())
	}
}
