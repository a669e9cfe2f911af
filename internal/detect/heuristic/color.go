package heuristic

import (
	"context"
	"image"

	"lookout/internal/detect"
	"lookout/internal/frame"
)

const (
	colorLabel      = "color"
	colorConfidence = 0.5
)

// Color detects phone-body colors. Pixels matching the black, white, or
// silver/gray HSV masks are combined into one mask; connected regions with a
// phone-like aspect ratio and enough area become candidates. Requires a color
// frame; grayscale-only capture yields no candidates.
type Color struct {
	MinArea int
}

func NewColor(minArea int) *Color {
	return &Color{MinArea: minArea}
}

func (c *Color) Name() string { return colorLabel }

func (c *Color) Detect(ctx context.Context, f *frame.Frame) ([]detect.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Color == nil {
		return nil, nil
	}

	b := f.Color.Bounds()
	mask := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := f.Color.RGBAAt(x, y)
			if phoneBodyColor(px.R, px.G, px.B) {
				mask.SetGray(x, y, maskOn)
			}
		}
	}

	var candidates []detect.Candidate
	for _, comp := range components(mask) {
		boxArea := comp.rect.Dx() * comp.rect.Dy()
		if boxArea < c.MinArea || !phoneLikeAspect(comp.rect) {
			continue
		}
		candidates = append(candidates, detect.Candidate{
			Label:      colorLabel,
			Confidence: colorConfidence,
			Region:     comp.rect,
		})
	}
	return candidates, nil
}

// phoneBodyColor matches black (low value), white (low saturation, high
// value), and silver/gray (low saturation, mid value) in OpenCV-scaled HSV.
func phoneBodyColor(r, g, b uint8) bool {
	_, s, v := rgbToHSV(r, g, b)
	switch {
	case v <= 50:
		return true
	case s <= 30 && v >= 200:
		return true
	case s <= 30 && v >= 100 && v < 200:
		return true
	default:
		return false
	}
}
