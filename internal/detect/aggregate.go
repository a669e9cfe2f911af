package detect

// Aggregate fuses the candidates for one frame into a single Decision.
//
// Candidates below the confidence threshold are dropped, then candidates whose
// region does not overlap the configured region of interest. If any remain,
// the decision is present with the highest remaining confidence (first in
// input order wins ties) and that candidate's region; otherwise absent with
// confidence zero.
//
// Aggregate is a pure function: deterministic, no I/O, no side effects.
func Aggregate(candidates []Candidate, params Params) Decision {
	var (
		best  Candidate
		found bool
	)
	for _, cand := range candidates {
		confidence := clamp01(cand.Confidence)
		if confidence < params.ConfidenceThreshold {
			continue
		}
		if params.HasROI && !cand.Region.Overlaps(params.RegionOfInterest) {
			continue
		}
		cand.Confidence = confidence
		if !found || confidence > best.Confidence {
			best = cand
			found = true
		}
	}

	if !found {
		return Decision{}
	}
	return Decision{
		Present:    true,
		Confidence: best.Confidence,
		Label:      best.Label,
		Region:     best.Region,
		HasRegion:  true,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
