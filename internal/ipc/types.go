package ipc

import "lookout/internal/api"

// StartRequest triggers watch pipeline startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the watch pipeline.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// PauseRequest suspends detection without releasing the camera.
type PauseRequest struct{}

// PauseResponse indicates pause result.
type PauseResponse struct {
	Paused  bool   `json:"paused"`
	Message string `json:"message"`
}

// ResumeRequest re-enables detection after a pause.
type ResumeRequest struct{}

// ResumeResponse indicates resume result.
type ResumeResponse struct {
	Resumed bool   `json:"resumed"`
	Message string `json:"message"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// Sighting mirrors the shared sighting DTO for IPC callers.
type Sighting = api.Sighting

// StatusLine describes one labeled readiness row.
type StatusLine = api.StatusLine

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = api.DependencyStatus

// DependencySummary aggregates dependency readiness.
type DependencySummary = api.DependencySummary

// StatusResponse represents combined daemon and watch loop status.
type StatusResponse struct {
	Running          bool   `json:"running"`
	Paused           bool   `json:"paused"`
	PID              int    `json:"pid"`
	SessionID        string `json:"session_id"`
	StartedAt        string `json:"started_at"`
	LockPath         string `json:"lock_path"`
	HistoryDBPath    string `json:"history_db_path"`
	LogPath          string `json:"log_path"`
	CameraDetected   bool   `json:"camera_detected"`
	CameraDevice     string `json:"camera_device"`
	CameraReadable   bool   `json:"camera_readable"`
	CameraMonitoring bool   `json:"camera_monitoring"`

	Frames           int64  `json:"frames"`
	Detections       int64  `json:"detections"`
	Notifications    int64  `json:"notifications"`
	DeliveryFailures int64  `json:"delivery_failures"`
	LastDetection    string `json:"last_detection"`
	LastNotification string `json:"last_notification"`
	CooldownSeconds  int    `json:"cooldown_seconds"`

	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`

	Dependencies []DependencyStatus `json:"dependencies"`

	// Populated by the CLI status snapshot, not by the daemon.
	SystemChecks      []StatusLine      `json:"system_checks,omitempty"`
	DependencySummary DependencySummary `json:"dependency_summary,omitempty"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// RecentSightingsRequest fetches the most recent sightings.
type RecentSightingsRequest struct {
	Limit int `json:"limit"`
}

// RecentSightingsResponse contains recent sightings, newest first.
type RecentSightingsResponse struct {
	Sightings []Sighting `json:"sightings"`
}

// SightingStatsRequest fetches aggregate history statistics.
type SightingStatsRequest struct{}

// SightingStatsResponse reports aggregate history statistics.
type SightingStatsResponse struct {
	Total    int            `json:"total"`
	Notified int            `json:"notified"`
	Failed   int            `json:"failed"`
	ByMethod map[string]int `json:"by_method"`
	First    string         `json:"first"`
	Last     string         `json:"last"`
}

// ClearHistoryRequest removes all recorded sightings.
type ClearHistoryRequest struct{}

// ClearHistoryResponse reports number of removed rows.
type ClearHistoryResponse struct {
	Removed int64 `json:"removed"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
