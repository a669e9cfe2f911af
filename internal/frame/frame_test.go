package frame

import (
	"image"
	"testing"
)

func TestDownscaleBoundsWidth(t *testing.T) {
	f := &Frame{Gray: image.NewGray(image.Rect(0, 0, 640, 480))}
	scaled := f.Downscale(320)
	b := scaled.Bounds()
	if b.Dx() != 320 || b.Dy() != 240 {
		t.Fatalf("expected 320x240, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestDownscaleNoopWhenNarrow(t *testing.T) {
	f := &Frame{Gray: image.NewGray(image.Rect(0, 0, 300, 200))}
	if scaled := f.Downscale(320); scaled != f {
		t.Fatal("narrow frames must be returned unchanged")
	}
}

func TestScaleMapsBackToFrame(t *testing.T) {
	f := &Frame{Gray: image.NewGray(image.Rect(0, 0, 640, 480))}
	if got := f.Scale(320); got != 2 {
		t.Fatalf("expected scale 2, got %v", got)
	}
	if got := f.Scale(0); got != 1 {
		t.Fatalf("expected scale 1 for disabled downscale, got %v", got)
	}
}
