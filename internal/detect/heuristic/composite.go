package heuristic

import (
	"context"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"lookout/internal/detect"
	"lookout/internal/frame"
	"lookout/internal/services"
)

// Composite runs the enabled heuristics concurrently over a downscaled copy of
// the frame and merges their candidates, mapping regions back to original
// frame coordinates. Best-of selection across methods is the aggregation
// contract's job, not Composite's.
type Composite struct {
	detectors     []detect.Detector
	analysisWidth int
}

// New builds a Composite from the configured method names. MinArea applies in
// downscaled pixels.
func New(methods []string, minArea, analysisWidth int) (*Composite, error) {
	if len(methods) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "detector", "new", "no detection methods enabled", nil)
	}
	detectors := make([]detect.Detector, 0, len(methods))
	for _, method := range methods {
		switch method {
		case edgeLabel:
			detectors = append(detectors, NewEdges(minArea))
		case colorLabel:
			detectors = append(detectors, NewColor(minArea))
		case shapeLabel:
			detectors = append(detectors, NewShape(minArea))
		default:
			return nil, services.Wrap(services.ErrConfiguration, "detector", "new", fmt.Sprintf("unknown detection method %q", method), nil)
		}
	}
	return &Composite{detectors: detectors, analysisWidth: analysisWidth}, nil
}

func (c *Composite) Name() string { return "composite" }

// Detect fans out to every enabled heuristic. A single heuristic failure fails
// the frame; the caller treats that frame as absent and continues.
func (c *Composite) Detect(ctx context.Context, f *frame.Frame) ([]detect.Candidate, error) {
	analysis := f.Downscale(c.analysisWidth)
	scale := f.Scale(c.analysisWidth)

	var (
		mu     sync.Mutex
		merged []detect.Candidate
	)
	group, groupCtx := errgroup.WithContext(ctx)
	for _, det := range c.detectors {
		det := det
		group.Go(func() error {
			candidates, err := det.Detect(groupCtx, analysis)
			if err != nil {
				return services.Wrap(services.ErrDetection, "detector", det.Name(), "heuristic failed", err)
			}
			if len(candidates) == 0 {
				return nil
			}
			mu.Lock()
			merged = append(merged, candidates...)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if scale != 1 {
		for i := range merged {
			merged[i].Region = scaleRect(merged[i].Region, scale)
		}
	}
	return merged, nil
}

func scaleRect(r image.Rectangle, scale float64) image.Rectangle {
	return image.Rect(
		int(float64(r.Min.X)*scale),
		int(float64(r.Min.Y)*scale),
		int(float64(r.Max.X)*scale),
		int(float64(r.Max.Y)*scale),
	)
}
