package capture

import (
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"lookout/internal/frame"
	"lookout/internal/services"
)

// Starter launches the capture child process and hands back its raw video
// stream. Abstracted for testability.
type Starter interface {
	Start(ctx context.Context, binary string, args []string) (io.ReadCloser, error)
}

// FFmpegOption configures the ffmpeg source.
type FFmpegOption func(*FFmpegSource)

// WithStarter injects a custom process starter (primarily for tests).
func WithStarter(starter Starter) FFmpegOption {
	return func(s *FFmpegSource) {
		if starter != nil {
			s.starter = starter
		}
	}
}

// FFmpegSource reads rgb24 rawvideo frames from an ffmpeg child process. Used
// when native V4L2 capture is unavailable or forced by configuration.
type FFmpegSource struct {
	binary  string
	device  string
	width   int
	height  int
	fps     int
	starter Starter
	stream  io.ReadCloser
	buf     []byte
	seq     atomic.Int64
}

// OpenFFmpeg builds the source. The child process starts lazily on the first
// NextFrame call so construction never blocks.
func OpenFFmpeg(binary, device string, width, height, fps int, opts ...FFmpegOption) (*FFmpegSource, error) {
	if width <= 0 || height <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "capture", "open", "capture size must be positive", nil)
	}
	src := &FFmpegSource{
		binary:  binary,
		device:  device,
		width:   width,
		height:  height,
		fps:     fps,
		starter: execStarter{},
		buf:     make([]byte, width*height*3),
	}
	for _, opt := range opts {
		opt(src)
	}
	return src, nil
}

func (s *FFmpegSource) args() []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", s.width, s.height),
		"-framerate", strconv.Itoa(s.fps),
		"-i", s.device,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	}
}

// NextFrame reads one full rgb24 frame from the stream.
func (s *FFmpegSource) NextFrame(ctx context.Context) (*frame.Frame, error) {
	if s.stream == nil {
		stream, err := s.starter.Start(ctx, s.binary, s.args())
		if err != nil {
			return nil, services.Wrap(services.ErrDetection, "capture", "frame", "start ffmpeg", err)
		}
		s.stream = stream
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(s.stream, s.buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrEndOfStream
		}
		return nil, services.Wrap(services.ErrDetection, "capture", "frame", "read raw frame", err)
	}

	bounds := image.Rect(0, 0, s.width, s.height)
	gray := image.NewGray(bounds)
	rgba := image.NewRGBA(bounds)
	for i := 0; i < s.width*s.height; i++ {
		r, g, b := s.buf[i*3], s.buf[i*3+1], s.buf[i*3+2]
		o := i * 4
		rgba.Pix[o], rgba.Pix[o+1], rgba.Pix[o+2], rgba.Pix[o+3] = r, g, b, 255
		// Integer BT.601 luma.
		gray.Pix[i] = uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
	}

	return &frame.Frame{
		Gray:     gray,
		Color:    rgba,
		Sequence: s.seq.Add(1),
		Captured: time.Now(),
	}, nil
}

// Close terminates the child process stream.
func (s *FFmpegSource) Close() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}

type execStarter struct{}

type processStream struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p processStream) Close() error {
	err := p.ReadCloser.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	return err
}

func (execStarter) Start(ctx context.Context, binary string, args []string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}
	return processStream{ReadCloser: stdout, cmd: cmd}, nil
}
