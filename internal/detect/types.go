package detect

import (
	"context"
	"image"

	"lookout/internal/frame"
)

// Candidate is one raw detection hit from a heuristic or model for a single
// frame. Candidates are produced fresh per frame and never persisted.
type Candidate struct {
	// Label names the detection method that produced the hit.
	Label string
	// Confidence is the method's confidence in [0,1]. Values outside the
	// range are clamped at the aggregation boundary.
	Confidence float64
	// Region is the candidate bounding box in frame pixel coordinates.
	Region image.Rectangle
}

// Decision is the aggregated verdict for one frame.
type Decision struct {
	Present    bool
	Confidence float64
	Label      string
	Region     image.Rectangle
	HasRegion  bool
}

// Params tunes the aggregation of candidates into a Decision.
type Params struct {
	// ConfidenceThreshold drops candidates below this confidence.
	ConfidenceThreshold float64
	// RegionOfInterest, when HasROI is set, drops candidates whose region
	// does not overlap it.
	RegionOfInterest image.Rectangle
	HasROI           bool
}

// Detector produces candidates for a frame. Implementations must return an
// empty slice rather than an error for a well-formed frame with no hits.
type Detector interface {
	Detect(ctx context.Context, f *frame.Frame) ([]Candidate, error)
	Name() string
}
