// Package capture acquires camera frames. Two backends exist: native V4L2 via
// the kernel interface, and an ffmpeg child process reading the same device.
// Backend "auto" prefers V4L2 and falls back to ffmpeg.
package capture

import (
	"context"
	"errors"
	"log/slog"

	"lookout/internal/config"
	"lookout/internal/frame"
	"lookout/internal/logging"
	"lookout/internal/services"
)

// ErrEndOfStream signals that the source has no further frames.
var ErrEndOfStream = errors.New("end of stream")

// Source yields frames on demand. NextFrame blocks until a frame is available,
// the context is canceled, or the stream ends.
type Source interface {
	NextFrame(ctx context.Context) (*frame.Frame, error)
	Close() error
}

// New opens the configured capture backend for the configured device.
func New(cfg *config.Config, logger *slog.Logger) (Source, error) {
	log := logging.NewComponentLogger(logger, "capture")
	device := cfg.DevicePath()

	switch cfg.Camera.Backend {
	case "v4l2":
		return OpenV4L2(device, cfg.Camera.Width, cfg.Camera.Height)
	case "ffmpeg":
		return OpenFFmpeg(cfg.FFmpegBinary(), device, cfg.Camera.Width, cfg.Camera.Height, cfg.Camera.FPS)
	case "auto":
		src, err := OpenV4L2(device, cfg.Camera.Width, cfg.Camera.Height)
		if err == nil {
			return src, nil
		}
		log.Warn("native capture unavailable, falling back to ffmpeg",
			logging.String(logging.FieldDevice, device),
			logging.Error(err))
		return OpenFFmpeg(cfg.FFmpegBinary(), device, cfg.Camera.Width, cfg.Camera.Height, cfg.Camera.FPS)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "capture", "open", "unknown backend "+cfg.Camera.Backend, nil)
	}
}
