package capture

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"sync/atomic"
	"time"

	"github.com/blackjack/webcam"

	"lookout/internal/frame"
	"lookout/internal/services"
)

// V4L2 fourcc codes, little-endian.
const (
	pixFmtYUYV  webcam.PixelFormat = 0x56595559
	pixFmtMJPEG webcam.PixelFormat = 0x47504A4D
)

// V4L2Source captures frames directly from a video4linux device.
type V4L2Source struct {
	cam    *webcam.Webcam
	format webcam.PixelFormat
	width  uint32
	height uint32
	seq    atomic.Int64
}

// OpenV4L2 opens the device and negotiates YUYV or MJPEG at the requested
// size. The driver may adjust the size; the negotiated one wins.
func OpenV4L2(device string, width, height int) (*V4L2Source, error) {
	cam, err := webcam.Open(device)
	if err != nil {
		return nil, services.Wrap(services.ErrDetection, "capture", "open", "open "+device, err)
	}

	supported := cam.GetSupportedFormats()
	var format webcam.PixelFormat
	for _, candidate := range []webcam.PixelFormat{pixFmtYUYV, pixFmtMJPEG} {
		if _, ok := supported[candidate]; ok {
			format = candidate
			break
		}
	}
	if format == 0 {
		_ = cam.Close()
		return nil, services.Wrap(services.ErrDetection, "capture", "open", "no supported pixel format on "+device, nil)
	}

	format, w, h, err := cam.SetImageFormat(format, uint32(width), uint32(height))
	if err != nil {
		_ = cam.Close()
		return nil, services.Wrap(services.ErrDetection, "capture", "open", "set image format", err)
	}
	if err := cam.SetBufferCount(2); err != nil {
		_ = cam.Close()
		return nil, services.Wrap(services.ErrDetection, "capture", "open", "set buffer count", err)
	}
	if err := cam.StartStreaming(); err != nil {
		_ = cam.Close()
		return nil, services.Wrap(services.ErrDetection, "capture", "open", "start streaming", err)
	}

	return &V4L2Source{cam: cam, format: format, width: w, height: h}, nil
}

// NextFrame waits for the next frame from the driver.
func (s *V4L2Source) NextFrame(ctx context.Context) (*frame.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.cam.WaitForFrame(1)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			continue
		default:
			return nil, services.Wrap(services.ErrDetection, "capture", "frame", "wait for frame", err)
		}

		raw, err := s.cam.ReadFrame()
		if err != nil {
			return nil, services.Wrap(services.ErrDetection, "capture", "frame", "read frame", err)
		}
		if len(raw) == 0 {
			continue
		}

		img, err := s.decode(raw)
		if err != nil {
			return nil, services.Wrap(services.ErrDetection, "capture", "frame", "decode frame", err)
		}
		return frame.FromImage(img, s.seq.Add(1), time.Now()), nil
	}
}

func (s *V4L2Source) decode(raw []byte) (image.Image, error) {
	switch s.format {
	case pixFmtYUYV:
		yuyv := image.NewYCbCr(image.Rect(0, 0, int(s.width), int(s.height)), image.YCbCrSubsampleRatio422)
		for i := range yuyv.Cb {
			ii := i * 4
			if ii+3 >= len(raw) {
				break
			}
			yuyv.Y[i*2] = raw[ii]
			yuyv.Y[i*2+1] = raw[ii+2]
			yuyv.Cb[i] = raw[ii+1]
			yuyv.Cr[i] = raw[ii+3]
		}
		return yuyv, nil
	default:
		return jpeg.Decode(bytes.NewReader(raw))
	}
}

// Close stops streaming and releases the device.
func (s *V4L2Source) Close() error {
	return s.cam.Close()
}
