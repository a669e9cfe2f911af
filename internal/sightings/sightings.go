package sightings

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
)

// Sighting is one recorded phone detection that passed the notification gate.
type Sighting struct {
	ID            int64
	UUID          string
	DetectedAt    time.Time
	Confidence    float64
	Method        string
	Region        string
	Notified      bool
	Recipient     string
	Backend       string
	DeliveryError string
	SnapshotPath  string
	CreatedAt     time.Time
}

// Stats summarizes the recorded history.
type Stats struct {
	Total         int
	Notified      int
	Failed        int
	ByMethod      map[string]int
	FirstDetected time.Time
	LastDetected  time.Time
}

// FormatRegion renders a bounding box as "x,y,WxH" for storage and display.
func FormatRegion(r image.Rectangle) string {
	return fmt.Sprintf("%d,%d,%dx%d", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// Record inserts a new sighting and returns it with ID and UUID populated.
func (s *Store) Record(ctx context.Context, detectedAt time.Time, confidence float64, method, region, snapshotPath string) (*Sighting, error) {
	sighting := &Sighting{
		UUID:         uuid.NewString(),
		DetectedAt:   detectedAt.UTC(),
		Confidence:   confidence,
		Method:       method,
		Region:       region,
		SnapshotPath: snapshotPath,
		CreatedAt:    time.Now().UTC(),
	}
	res, err := s.execWithRetry(ctx, `
INSERT INTO sightings (uuid, detected_at, confidence, method, region, snapshot_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sighting.UUID, sighting.DetectedAt, sighting.Confidence, sighting.Method,
		sighting.Region, sighting.SnapshotPath, sighting.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record sighting: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sighting id: %w", err)
	}
	sighting.ID = id
	return sighting, nil
}

// MarkNotified records a successful delivery for the sighting.
func (s *Store) MarkNotified(ctx context.Context, id int64, recipientName, backend string) error {
	return s.execWithoutResultRetry(ctx, `
UPDATE sightings SET notified = 1, recipient = ?, backend = ?, delivery_error = '' WHERE id = ?`,
		recipientName, backend, id)
}

// MarkDeliveryFailed records a failed delivery attempt for the sighting.
func (s *Store) MarkDeliveryFailed(ctx context.Context, id int64, recipientName, backend, reason string) error {
	return s.execWithoutResultRetry(ctx, `
UPDATE sightings SET notified = 0, recipient = ?, backend = ?, delivery_error = ? WHERE id = ?`,
		recipientName, backend, reason, id)
}

// Recent returns the newest sightings, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Sighting, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
SELECT id, uuid, detected_at, confidence, method, region, notified, recipient, backend, delivery_error, snapshot_path, created_at
FROM sightings ORDER BY detected_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sightings: %w", err)
	}
	defer rows.Close()

	var out []Sighting
	for rows.Next() {
		var (
			sighting Sighting
			notified int
		)
		if err := rows.Scan(&sighting.ID, &sighting.UUID, &sighting.DetectedAt, &sighting.Confidence,
			&sighting.Method, &sighting.Region, &notified, &sighting.Recipient, &sighting.Backend,
			&sighting.DeliveryError, &sighting.SnapshotPath, &sighting.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sighting: %w", err)
		}
		sighting.Notified = notified != 0
		out = append(out, sighting)
	}
	return out, rows.Err()
}

// Stats aggregates totals across the whole history.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{ByMethod: map[string]int{}}

	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(notified), 0),
       COALESCE(SUM(CASE WHEN delivery_error != '' THEN 1 ELSE 0 END), 0)
FROM sightings`).Scan(&stats.Total, &stats.Notified, &stats.Failed)
	if err != nil {
		return Stats{}, fmt.Errorf("sighting totals: %w", err)
	}

	// MIN/MAX aggregates lose the column's TIMESTAMP declared type and come
	// back as raw strings; ordered lookups keep the driver's time.Time
	// conversion.
	if stats.Total > 0 {
		if err := s.db.QueryRowContext(ctx,
			`SELECT detected_at FROM sightings ORDER BY detected_at ASC LIMIT 1`).Scan(&stats.FirstDetected); err != nil {
			return Stats{}, fmt.Errorf("first sighting: %w", err)
		}
		if err := s.db.QueryRowContext(ctx,
			`SELECT detected_at FROM sightings ORDER BY detected_at DESC LIMIT 1`).Scan(&stats.LastDetected); err != nil {
			return Stats{}, fmt.Errorf("last sighting: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT method, COUNT(*) FROM sightings GROUP BY method`)
	if err != nil {
		return Stats{}, fmt.Errorf("sighting method counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			method string
			count  int
		)
		if err := rows.Scan(&method, &count); err != nil {
			return Stats{}, fmt.Errorf("scan method count: %w", err)
		}
		stats.ByMethod[method] = count
	}
	return stats, rows.Err()
}

// PruneOlderThan deletes sightings detected before the cutoff and returns the
// number removed.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sightings WHERE detected_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune sightings: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes the entire sighting history and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sightings`)
	if err != nil {
		return 0, fmt.Errorf("clear sightings: %w", err)
	}
	return res.RowsAffected()
}
