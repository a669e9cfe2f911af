package heuristic

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"lookout/internal/frame"
)

// phoneFrame draws a dark portrait rectangle on a light background, the
// silhouette every heuristic should pick up.
func phoneFrame(t *testing.T, width, height int, phone image.Rectangle) *frame.Frame {
	t.Helper()
	gray := image.NewGray(image.Rect(0, 0, width, height))
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pt := image.Pt(x, y)
			if pt.In(phone) {
				gray.SetGray(x, y, color.Gray{Y: 20})
				rgba.SetRGBA(x, y, color.RGBA{R: 15, G: 15, B: 15, A: 255})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 220})
				// Saturated green so the background never matches a
				// phone body color mask.
				rgba.SetRGBA(x, y, color.RGBA{G: 200, A: 255})
			}
		}
	}
	return &frame.Frame{Gray: gray, Color: rgba, Sequence: 1, Captured: time.Now()}
}

func TestEdgesFindsPhoneOutline(t *testing.T) {
	phone := image.Rect(60, 50, 100, 130)
	f := phoneFrame(t, 200, 200, phone)

	candidates, err := NewEdges(800).Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected at least one edge candidate")
	}
	c := candidates[0]
	if c.Label != "edges" || c.Confidence != 0.6 {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if !c.Region.Overlaps(phone) {
		t.Fatalf("candidate region %v does not overlap phone %v", c.Region, phone)
	}
}

func TestEdgesRejectsLandscapeBox(t *testing.T) {
	// Aspect ratio 2.5 is far outside the phone band.
	f := phoneFrame(t, 200, 200, image.Rect(40, 80, 140, 120))

	candidates, err := NewEdges(800).Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates for landscape box, got %d", len(candidates))
	}
}

func TestShapeFindsSolidRectangle(t *testing.T) {
	phone := image.Rect(60, 50, 100, 130)
	f := phoneFrame(t, 200, 200, phone)

	candidates, err := NewShape(800).Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one shape candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Label != "shape" || c.Confidence != 0.4 {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if !c.Region.Overlaps(phone) {
		t.Fatalf("candidate region %v does not overlap phone %v", c.Region, phone)
	}
}

func TestShapeRejectsHollowOutline(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			gray.SetGray(x, y, color.Gray{Y: 220})
		}
	}
	// 2px hollow frame: phone-like bounding box but almost no fill.
	outline := image.Rect(60, 50, 100, 130)
	for y := outline.Min.Y; y < outline.Max.Y; y++ {
		for x := outline.Min.X; x < outline.Max.X; x++ {
			onBorder := x < outline.Min.X+2 || x >= outline.Max.X-2 ||
				y < outline.Min.Y+2 || y >= outline.Max.Y-2
			if onBorder {
				gray.SetGray(x, y, color.Gray{Y: 20})
			}
		}
	}
	f := &frame.Frame{Gray: gray}

	candidates, err := NewShape(100).Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("hollow outline must fail the solidity gate, got %d candidates", len(candidates))
	}
}

func TestColorFindsPhoneBody(t *testing.T) {
	phone := image.Rect(60, 50, 100, 130)
	f := phoneFrame(t, 200, 200, phone)

	candidates, err := NewColor(800).Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one color candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Label != "color" || c.Confidence != 0.5 {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestColorSkipsGrayOnlyFrames(t *testing.T) {
	f := phoneFrame(t, 200, 200, image.Rect(60, 50, 100, 130))
	f.Color = nil

	candidates, err := NewColor(800).Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if candidates != nil {
		t.Fatalf("expected no candidates without a color frame, got %v", candidates)
	}
}

func TestCompositeMergesMethods(t *testing.T) {
	phone := image.Rect(60, 50, 100, 130)
	f := phoneFrame(t, 200, 200, phone)

	composite, err := New([]string{"edges", "shape"}, 800, 200)
	if err != nil {
		t.Fatalf("new composite: %v", err)
	}
	candidates, err := composite.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	labels := map[string]bool{}
	for _, c := range candidates {
		labels[c.Label] = true
	}
	if !labels["edges"] || !labels["shape"] {
		t.Fatalf("expected candidates from both methods, got %v", labels)
	}
}

func TestCompositeScalesRegionsToFrame(t *testing.T) {
	phone := image.Rect(120, 100, 200, 260)
	f := phoneFrame(t, 400, 400, phone)

	composite, err := New([]string{"shape"}, 200, 200)
	if err != nil {
		t.Fatalf("new composite: %v", err)
	}
	candidates, err := composite.Detect(context.Background(), f)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected a candidate")
	}
	if !candidates[0].Region.Overlaps(phone) {
		t.Fatalf("scaled region %v does not overlap phone %v in frame coordinates", candidates[0].Region, phone)
	}
}

func TestCompositeRejectsUnknownMethod(t *testing.T) {
	if _, err := New([]string{"sonar"}, 800, 200); err == nil {
		t.Fatal("expected error for unknown method")
	}
	if _, err := New(nil, 800, 200); err == nil {
		t.Fatal("expected error for empty method list")
	}
}
