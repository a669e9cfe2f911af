package api

import (
	"context"
	"strings"
	"testing"
	"time"

	"lookout/internal/config"
	"lookout/internal/logging"
	"lookout/internal/sightings"
)

func TestFromSighting(t *testing.T) {
	detected := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	dto := FromSighting(sightings.Sighting{
		ID:         7,
		UUID:       "abc",
		DetectedAt: detected,
		Confidence: 0.8,
		Method:     "edges",
		Notified:   true,
		Recipient:  "A",
	})
	if dto.DetectedAt != "2026-03-14T09:26:53Z" {
		t.Fatalf("unexpected detected_at %q", dto.DetectedAt)
	}
	if dto.CreatedAt != "" {
		t.Fatalf("zero created_at must render empty, got %q", dto.CreatedAt)
	}
	if dto.ID != 7 || !dto.Notified {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestMethodLabel(t *testing.T) {
	if got := MethodLabel("edges"); got != "Edges" {
		t.Fatalf("MethodLabel = %q", got)
	}
	if got := MethodLabel("  "); got != "" {
		t.Fatalf("blank method must render empty, got %q", got)
	}
}

func TestFormatDisplayTime(t *testing.T) {
	if got := FormatDisplayTime(""); got != "never" {
		t.Fatalf("empty timestamp = %q", got)
	}
	if got := FormatDisplayTime("not-a-time"); got != "not-a-time" {
		t.Fatalf("unparseable timestamp = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Fatalf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildDependencySummary(t *testing.T) {
	summary := BuildDependencySummary(nil)
	if summary.Severity != "info" {
		t.Fatalf("empty summary severity = %q", summary.Severity)
	}

	summary = BuildDependencySummary([]DependencyStatus{
		{Name: "FFmpeg", Available: true},
		{Name: "osascript", Available: false},
	})
	if summary.Severity != "error" || summary.MissingRequired != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	summary = BuildDependencySummary([]DependencyStatus{
		{Name: "FFmpeg", Available: false, Optional: true},
	})
	if summary.Severity != "warn" || summary.MissingOptional != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestSendTestNotificationDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Notify.Backend = "none"

	sent, message, err := SendTestNotification(context.Background(), &cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("SendTestNotification: %v", err)
	}
	if sent {
		t.Fatal("disabled backend must not send")
	}
	if !strings.Contains(message, "disabled") {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestBuildSelectorPlaceholder(t *testing.T) {
	cfg := config.Default()
	cfg.Notify.Recipients = nil

	selector, err := BuildSelector(&cfg)
	if err != nil {
		t.Fatalf("BuildSelector: %v", err)
	}
	rcpt := selector.Pick()
	if rcpt.Name != "log-only" {
		t.Fatalf("expected placeholder recipient, got %+v", rcpt)
	}
	if rcpt.Message == "" {
		t.Fatal("placeholder must inherit the fallback message")
	}
}
