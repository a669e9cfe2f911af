package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"lookout/internal/capture"
	"lookout/internal/config"
	"lookout/internal/detect"
	"lookout/internal/frame"
	"lookout/internal/logging"
	"lookout/internal/notify"
	"lookout/internal/recipient"
	"lookout/internal/services"
	"lookout/internal/sightings"
	"lookout/internal/snapshot"
	"lookout/internal/throttle"
)

// Deps carries the loop's collaborators. Store, Snapshots, and Clock are
// optional; a nil clock uses wall time.
type Deps struct {
	Source    capture.Source
	Detector  detect.Detector
	Selector  *recipient.Selector
	Sender    notify.Sender
	Store     *sightings.Store
	Snapshots *snapshot.Writer
	Clock     clock.Clock
}

// Loop drives the sequential detection-and-notification cycle.
type Loop struct {
	cfg      *config.Config
	deps     Deps
	gate     *throttle.Gate
	params   detect.Params
	required int
	logger   *slog.Logger
	clk      clock.Clock

	mu               sync.Mutex
	paused           bool
	consecutive      int
	frames           int64
	detections       int64
	notifications    int64
	deliveryFailures int64
	lastDetection    time.Time
	lastNotification time.Time
}

// New builds a loop from configuration and collaborators.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) (*Loop, error) {
	if deps.Source == nil || deps.Detector == nil || deps.Selector == nil || deps.Sender == nil {
		return nil, services.Wrap(services.ErrConfiguration, "watch", "new", "missing pipeline collaborator", nil)
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}

	params := detect.Params{ConfidenceThreshold: cfg.Detection.Confidence}
	if roi, ok := cfg.ROI(); ok {
		params.RegionOfInterest = roi
		params.HasROI = true
	}

	required := cfg.Detection.RequireConsecutive
	if required < 1 {
		required = 1
	}

	return &Loop{
		cfg:      cfg,
		deps:     deps,
		gate:     throttle.NewGate(cfg.Cooldown(), clk),
		params:   params,
		required: required,
		logger:   logging.NewComponentLogger(logger, "watch"),
		clk:      clk,
	}, nil
}

// Run processes frames until the context is canceled or the source ends.
// Shutdown is cooperative: cancellation is observed between cycles and the
// in-flight cycle finishes.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.cfg.FrameInterval()
	ticker := l.clk.Ticker(interval)
	defer ticker.Stop()

	l.logger.Info("watch loop started",
		logging.Duration("interval", interval),
		logging.Duration("cooldown", l.gate.Cooldown()),
		logging.Int("require_consecutive", l.required))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if l.Paused() {
			continue
		}
		if err := l.Cycle(ctx); err != nil {
			if errors.Is(err, capture.ErrEndOfStream) {
				l.logger.Info("frame source ended")
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Cycle runs exactly one per-frame pass. Detection failures are logged and
// treated as an absent frame; only end-of-stream and cancellation propagate.
func (l *Loop) Cycle(ctx context.Context) error {
	f, err := l.deps.Source.NextFrame(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrEndOfStream) || ctx.Err() != nil {
			return err
		}
		logging.ErrorWithContext(l.logger, "frame acquisition failed", "capture_failed", logging.Error(err))
		return nil
	}

	l.mu.Lock()
	l.frames++
	l.mu.Unlock()

	frameCtx := services.WithFrame(ctx, f.Sequence)
	candidates, err := l.deps.Detector.Detect(frameCtx, f)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// A failed frame is an absent frame; the loop keeps running.
		logging.ErrorWithContext(l.logger, "detection failed, treating frame as absent", "detection_failed",
			logging.Int64(logging.FieldFrame, f.Sequence),
			logging.Error(err))
		candidates = nil
	}

	decision := detect.Aggregate(candidates, l.params)
	eligible := l.applyDebounce(decision)

	if decision.Present {
		l.logger.Debug("phone present",
			logging.Int64(logging.FieldFrame, f.Sequence),
			logging.Float64(logging.FieldConfidence, decision.Confidence),
			logging.String(logging.FieldMethod, decision.Label))
	}

	if !eligible || !l.gate.TryAllow(true) {
		return nil
	}

	l.notify(ctx, f, decision)
	return nil
}

// applyDebounce tracks consecutive present frames and reports whether this
// decision may notify. Present also updates the detection counters.
func (l *Loop) applyDebounce(decision detect.Decision) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !decision.Present {
		l.consecutive = 0
		return false
	}
	l.consecutive++
	l.detections++
	l.lastDetection = l.clk.Now()
	return l.consecutive >= l.required
}

// Pause suspends frame processing without tearing down the pipeline. The
// consecutive-frame debounce resets so a resume starts a fresh streak.
func (l *Loop) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = true
	l.consecutive = 0
}

// Resume re-enables frame processing after a pause.
func (l *Loop) Resume() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = false
}

// Paused reports whether the loop is currently suspended.
func (l *Loop) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// notify records the sighting and delivers the message. Runs after the
// throttle gate released its lock; a delivery failure never rewinds the
// cooldown, so an undeliverable recipient cannot cause retry spam.
func (l *Loop) notify(ctx context.Context, f *frame.Frame, decision detect.Decision) {
	detectedAt := l.clk.Now()

	var snapshotPath string
	if l.deps.Snapshots != nil {
		path, err := l.deps.Snapshots.Save(f, detectedAt)
		if err != nil {
			logging.WarnWithContext(l.logger, "snapshot save failed", "snapshot_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "sighting recorded without snapshot"))
		} else {
			snapshotPath = path
		}
	}

	var sighting *sightings.Sighting
	if l.deps.Store != nil {
		region := ""
		if decision.HasRegion {
			region = sightings.FormatRegion(decision.Region)
		}
		recorded, err := l.deps.Store.Record(ctx, detectedAt, decision.Confidence, decision.Label, region, snapshotPath)
		if err != nil {
			logging.WarnWithContext(l.logger, "sighting record failed", "store_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "notification proceeds without history row"))
		} else {
			sighting = recorded
		}
	}

	rcpt := l.deps.Selector.Pick()
	err := l.deps.Sender.Send(ctx, rcpt, rcpt.Message)

	l.mu.Lock()
	if err == nil {
		l.notifications++
		l.lastNotification = detectedAt
	} else {
		l.deliveryFailures++
	}
	l.mu.Unlock()

	if err != nil {
		logging.ErrorWithContext(l.logger, "notification delivery failed", "delivery_failed",
			logging.String(logging.FieldRecipient, rcpt.Name),
			logging.String(logging.FieldBackend, l.deps.Sender.Name()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cooldown window is consumed; next eligible detection retries"))
		if sighting != nil && l.deps.Store != nil {
			if markErr := l.deps.Store.MarkDeliveryFailed(ctx, sighting.ID, rcpt.Name, l.deps.Sender.Name(), err.Error()); markErr != nil {
				l.logger.Warn("mark delivery failed", logging.Error(markErr))
			}
		}
		return
	}

	l.logger.Info("notification sent",
		logging.String(logging.FieldRecipient, rcpt.Name),
		logging.String(logging.FieldBackend, l.deps.Sender.Name()),
		logging.Float64(logging.FieldConfidence, decision.Confidence))
	if sighting != nil && l.deps.Store != nil {
		if markErr := l.deps.Store.MarkNotified(ctx, sighting.ID, rcpt.Name, l.deps.Sender.Name()); markErr != nil {
			l.logger.Warn("mark notified", logging.Error(markErr))
		}
	}
}

// Status is a point-in-time summary of loop activity.
type Status struct {
	Paused           bool
	Frames           int64
	Detections       int64
	Notifications    int64
	DeliveryFailures int64
	LastDetection    time.Time
	LastNotification time.Time
	Cooldown         time.Duration
}

// Status returns a snapshot of the loop counters.
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		Paused:           l.paused,
		Frames:           l.frames,
		Detections:       l.detections,
		Notifications:    l.notifications,
		DeliveryFailures: l.deliveryFailures,
		LastDetection:    l.lastDetection,
		LastNotification: l.lastNotification,
		Cooldown:         l.gate.Cooldown(),
	}
}
