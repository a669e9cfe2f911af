package api

import (
	"time"

	"lookout/internal/sightings"
)

// Sighting is the transport representation of one recorded sighting.
type Sighting struct {
	ID            int64   `json:"id"`
	UUID          string  `json:"uuid"`
	DetectedAt    string  `json:"detected_at"`
	Confidence    float64 `json:"confidence"`
	Method        string  `json:"method"`
	Region        string  `json:"region,omitempty"`
	Notified      bool    `json:"notified"`
	Recipient     string  `json:"recipient,omitempty"`
	Backend       string  `json:"backend,omitempty"`
	DeliveryError string  `json:"delivery_error,omitempty"`
	SnapshotPath  string  `json:"snapshot_path,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// FromSighting converts a store row into its transport representation.
func FromSighting(s sightings.Sighting) Sighting {
	return Sighting{
		ID:            s.ID,
		UUID:          s.UUID,
		DetectedAt:    FormatTimestamp(s.DetectedAt),
		Confidence:    s.Confidence,
		Method:        s.Method,
		Region:        s.Region,
		Notified:      s.Notified,
		Recipient:     s.Recipient,
		Backend:       s.Backend,
		DeliveryError: s.DeliveryError,
		SnapshotPath:  s.SnapshotPath,
		CreatedAt:     FormatTimestamp(s.CreatedAt),
	}
}

// FormatTimestamp renders a timestamp for transport. Zero times become the
// empty string so JSON consumers can distinguish "never".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// StatusLine is one labeled readiness row in status output.
type StatusLine struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// DependencyStatus describes availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail"`
	Severity    string `json:"severity"`
}

// DependencySummary aggregates dependency readiness.
type DependencySummary struct {
	Total           int    `json:"total"`
	Available       int    `json:"available"`
	MissingRequired int    `json:"missing_required"`
	MissingOptional int    `json:"missing_optional"`
	Severity        string `json:"severity"`
	Detail          string `json:"detail"`
}
