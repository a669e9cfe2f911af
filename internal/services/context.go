package services

import "context"

type contextKey string

const (
	frameKey     contextKey = "frame"
	componentKey contextKey = "component"
	requestIDKey contextKey = "request_id"
)

// WithFrame annotates context with the capture sequence number of the frame
// currently moving through the pipeline.
func WithFrame(ctx context.Context, seq int64) context.Context {
	return context.WithValue(ctx, frameKey, seq)
}

// FrameFromContext extracts the frame sequence number if present.
func FrameFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(frameKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithComponent annotates context with the pipeline component name.
func WithComponent(ctx context.Context, component string) context.Context {
	if component == "" {
		return ctx
	}
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext returns the component name if present.
func ComponentFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(componentKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
