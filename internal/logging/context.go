package logging

import (
	"context"
	"log/slog"

	"lookout/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFrame is the standardized structured logging key for frame sequence numbers.
	FieldFrame = "frame"
	// FieldConfidence is the standardized structured logging key for detection confidence values.
	FieldConfidence = "confidence"
	// FieldMethod is the standardized structured logging key for detection method labels.
	FieldMethod = "method"
	// FieldRecipient is the standardized structured logging key for notification recipient names.
	FieldRecipient = "recipient"
	// FieldBackend is the standardized structured logging key for notification backend names.
	FieldBackend = "backend"
	// FieldDevice is the standardized structured logging key for camera device paths.
	FieldDevice = "device"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType is the standardized structured logging key for machine-readable event names.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for operator guidance on failures.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSessionID is the standardized structured logging key for daemon run session identifiers.
	FieldSessionID = "session_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if seq, ok := services.FrameFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldFrame, seq))
	}
	if component, ok := services.ComponentFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldComponent, component))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
