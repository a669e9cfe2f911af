// Package frame defines the in-memory representation of a captured camera
// frame as it moves through the detection pipeline.
package frame

import (
	"image"
	"time"

	xdraw "golang.org/x/image/draw"
)

// Frame is one captured image plus capture metadata. Gray is always populated;
// Color is populated only when a capture backend can supply it cheaply (the
// color heuristic degrades to a no-op without it).
type Frame struct {
	Gray     *image.Gray
	Color    *image.RGBA
	Sequence int64
	Captured time.Time
}

// Bounds returns the pixel bounds of the frame.
func (f *Frame) Bounds() image.Rectangle {
	if f == nil || f.Gray == nil {
		return image.Rectangle{}
	}
	return f.Gray.Bounds()
}

// Scale returns the factor mapping analysis coordinates back to the original
// frame, given the width the frame was downscaled to.
func (f *Frame) Scale(analysisWidth int) float64 {
	b := f.Bounds()
	if analysisWidth <= 0 || b.Dx() <= analysisWidth {
		return 1
	}
	return float64(b.Dx()) / float64(analysisWidth)
}

// Downscale returns a copy of the frame resized so its width is at most
// maxWidth, preserving aspect ratio. Frames already narrow enough are returned
// unchanged. Detection runs on the downscaled copy; reported regions are
// mapped back by the caller using Scale.
func (f *Frame) Downscale(maxWidth int) *Frame {
	b := f.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return f
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	target := image.Rect(0, 0, maxWidth, height)

	gray := image.NewGray(target)
	xdraw.ApproxBiLinear.Scale(gray, target, f.Gray, b, xdraw.Src, nil)

	out := &Frame{Gray: gray, Sequence: f.Sequence, Captured: f.Captured}
	if f.Color != nil {
		rgba := image.NewRGBA(target)
		xdraw.ApproxBiLinear.Scale(rgba, target, f.Color, f.Color.Bounds(), xdraw.Src, nil)
		out.Color = rgba
	}
	return out
}

// FromImage builds a Frame from an arbitrary image, converting to gray and
// keeping an RGBA view for color analysis.
func FromImage(img image.Image, seq int64, captured time.Time) *Frame {
	b := img.Bounds()
	gray := image.NewGray(b)
	rgba := image.NewRGBA(b)
	xdraw.Draw(gray, b, img, b.Min, xdraw.Src)
	xdraw.Draw(rgba, b, img, b.Min, xdraw.Src)
	return &Frame{Gray: gray, Color: rgba, Sequence: seq, Captured: captured}
}
