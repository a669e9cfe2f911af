package heuristic

import (
	"context"
	"image"

	"lookout/internal/detect"
	"lookout/internal/frame"
)

const (
	shapeLabel       = "shape"
	shapeConfidence  = 0.4
	minShapeSolidity = 0.7
)

// Shape detects solid rectangular silhouettes: Otsu binarization of the dark
// foreground, then connected components filtered by solidity (filled-pixel
// share of the bounding box), aspect ratio, and area.
type Shape struct {
	MinArea int
}

func NewShape(minArea int) *Shape {
	return &Shape{MinArea: minArea}
}

func (s *Shape) Name() string { return shapeLabel }

func (s *Shape) Detect(ctx context.Context, f *frame.Frame) ([]detect.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	threshold := otsuThreshold(f.Gray)

	b := f.Gray.Bounds()
	mask := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if f.Gray.GrayAt(x, y).Y <= threshold {
				mask.SetGray(x, y, maskOn)
			}
		}
	}

	var candidates []detect.Candidate
	for _, comp := range components(mask) {
		boxArea := comp.rect.Dx() * comp.rect.Dy()
		if boxArea < s.MinArea || !phoneLikeAspect(comp.rect) {
			continue
		}
		if float64(comp.area)/float64(boxArea) <= minShapeSolidity {
			continue
		}
		candidates = append(candidates, detect.Candidate{
			Label:      shapeLabel,
			Confidence: shapeConfidence,
			Region:     comp.rect,
		})
	}
	return candidates, nil
}
