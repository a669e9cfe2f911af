package api

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"lookout/internal/config"
	"lookout/internal/notify"
	"lookout/internal/recipient"
)

// BuildSelector constructs the recipient selector for the configured backend.
// A disabled backend may have no recipients; a placeholder keeps callers
// working so detections still log and record.
func BuildSelector(cfg *config.Config) (*recipient.Selector, error) {
	recipients := cfg.Notify.Recipients
	if len(recipients) == 0 {
		recipients = []config.Recipient{{Name: "log-only", Address: "-"}}
	}
	mode := recipient.Mode(cfg.Notify.Selection)
	var rng *rand.Rand
	if mode == recipient.ModeRandom {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return recipient.NewSelector(recipients, mode, rng, cfg.Notify.Message)
}

// SendTestNotification delivers a test message to one configured recipient.
// It works against the live configuration, so the CLI can exercise delivery
// without a running daemon.
func SendTestNotification(ctx context.Context, cfg *config.Config, logger *slog.Logger) (bool, string, error) {
	if cfg == nil {
		return false, "configuration unavailable", fmt.Errorf("configuration unavailable")
	}
	if cfg.Notify.Backend == "none" {
		return false, "notifications disabled (notify.backend = none)", nil
	}

	sender, err := notify.FromConfig(cfg, logger)
	if err != nil {
		return false, "failed to build notifier", err
	}
	selector, err := BuildSelector(cfg)
	if err != nil {
		return false, "failed to build recipient selector", err
	}

	rcpt := selector.Pick()
	if err := sender.Send(ctx, rcpt, "Lookout test notification"); err != nil {
		return false, "failed to send notification", err
	}
	return true, fmt.Sprintf("test notification sent to %s via %s", rcpt.Name, sender.Name()), nil
}
