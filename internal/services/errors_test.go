package services_test

import (
	"errors"
	"strings"
	"testing"

	"lookout/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "notify", "send", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"notify", "send", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "capture", "read", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker for nil input, got %v", err)
	}
}

func TestStartupFatal(t *testing.T) {
	configErr := services.Wrap(services.ErrConfiguration, "config", "load", "missing recipients", nil)
	if !services.StartupFatal(configErr) {
		t.Fatalf("expected configuration error to be startup fatal")
	}

	validationErr := services.Wrap(services.ErrValidation, "config", "validate", "bad threshold", nil)
	if !services.StartupFatal(validationErr) {
		t.Fatalf("expected validation error to be startup fatal")
	}

	deliveryErr := services.Wrap(services.ErrDelivery, "notify", "send", "unreachable", errors.New("refused"))
	if services.StartupFatal(deliveryErr) {
		t.Fatalf("delivery errors must not abort startup")
	}

	detectionErr := services.Wrap(services.ErrDetection, "detect", "analyze", "bad frame", nil)
	if services.StartupFatal(detectionErr) {
		t.Fatalf("detection errors must not abort startup")
	}

	if services.StartupFatal(nil) {
		t.Fatalf("nil error must not be startup fatal")
	}
}
