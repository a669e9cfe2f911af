package heuristic

import (
	"context"

	"lookout/internal/detect"
	"lookout/internal/frame"
)

const (
	edgeLabel      = "edges"
	edgeConfidence = 0.6
	edgeThreshold  = 60.0
	edgeKernel     = 5
	edgeIterations = 2
)

// Edges detects phone-shaped outlines: Sobel gradient, threshold, dilation to
// close the outline, then connected components filtered by aspect ratio and
// minimum area.
type Edges struct {
	MinArea int
}

func NewEdges(minArea int) *Edges {
	return &Edges{MinArea: minArea}
}

func (e *Edges) Name() string { return edgeLabel }

func (e *Edges) Detect(ctx context.Context, f *frame.Frame) ([]detect.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mask := sobelMask(f.Gray, edgeThreshold)
	mask = dilate(mask, edgeKernel, edgeIterations)

	var candidates []detect.Candidate
	for _, comp := range components(mask) {
		boxArea := comp.rect.Dx() * comp.rect.Dy()
		if boxArea < e.MinArea || !phoneLikeAspect(comp.rect) {
			continue
		}
		candidates = append(candidates, detect.Candidate{
			Label:      edgeLabel,
			Confidence: edgeConfidence,
			Region:     comp.rect,
		})
	}
	return candidates, nil
}
