// Package heuristic implements classical computer-vision phone detectors over
// raw frames: edge contours, body-color masks, and shape solidity. Each
// heuristic is a detect.Detector; Composite fans out over the enabled set and
// merges their candidates.
package heuristic
