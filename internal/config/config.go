package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Camera contains capture device configuration.
type Camera struct {
	Index          int    `toml:"index"`
	Device         string `toml:"device"`
	Backend        string `toml:"backend"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	FPS            int    `toml:"fps"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
}

// Detection contains phone detection tuning.
type Detection struct {
	Confidence         float64  `toml:"confidence"`
	Methods            []string `toml:"methods"`
	RegionOfInterest   []int    `toml:"region_of_interest"`
	MinArea            int      `toml:"min_area"`
	AnalysisWidth      int      `toml:"analysis_width"`
	RequireConsecutive int      `toml:"require_consecutive"`
}

// Recipient identifies one notification destination.
type Recipient struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
	Message string `toml:"message"`
}

// Messages contains Apple Messages delivery settings (osascript automation).
type Messages struct {
	Service     string `toml:"service"`
	Binary      string `toml:"binary"`
	SendTimeout int    `toml:"send_timeout"`
}

// Telegram contains Telegram bot delivery settings.
type Telegram struct {
	Token string `toml:"token"`
}

// Ntfy contains ntfy push delivery settings.
type Ntfy struct {
	Topic          string `toml:"topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Notify contains notification routing, cooldown, and recipient configuration.
type Notify struct {
	Backend         string      `toml:"backend"`
	CooldownSeconds int         `toml:"cooldown_seconds"`
	Selection       string      `toml:"selection"`
	Message         string      `toml:"message"`
	Recipients      []Recipient `toml:"recipient"`
	Messages        Messages    `toml:"messages"`
	Telegram        Telegram    `toml:"telegram"`
	Ntfy            Ntfy        `toml:"ntfy"`
}

// Store contains sighting history database configuration.
type Store struct {
	HistoryDB     string `toml:"history_db"`
	RetentionDays int    `toml:"retention_days"`
}

// Snapshots contains sighting snapshot output configuration.
type Snapshots struct {
	Enabled        bool   `toml:"enabled"`
	Dir            string `toml:"dir"`
	ThumbnailWidth int    `toml:"thumbnail_width"`
}

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for lookout.
//
// Configuration sections by subsystem:
//   - Camera: capture device, backend selection, and frame pacing
//   - Detection: confidence threshold, heuristics, region of interest
//   - Notify: delivery backend, cooldown, recipient rotation
//   - Store: sighting history database and retention
//   - Snapshots: per-sighting frame captures
//   - Paths: log directory
//   - Logging: log format, level, and retention
type Config struct {
	Camera    Camera    `toml:"camera"`
	Detection Detection `toml:"detection"`
	Notify    Notify    `toml:"notify"`
	Store     Store     `toml:"store"`
	Snapshots Snapshots `toml:"snapshots"`
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lookout/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/lookout/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lookout.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Store.HistoryDB)}
	if c.Snapshots.Enabled && strings.TrimSpace(c.Snapshots.Dir) != "" {
		dirs = append(dirs, c.Snapshots.Dir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DevicePath returns the camera device node, honoring an explicit device
// override before falling back to the configured index.
func (c *Config) DevicePath() string {
	if dev := strings.TrimSpace(c.Camera.Device); dev != "" {
		return dev
	}
	return fmt.Sprintf("/dev/video%d", c.Camera.Index)
}

// Cooldown returns the minimum interval enforced between outbound
// notifications. Zero means every detected frame may notify.
func (c *Config) Cooldown() time.Duration {
	if c.Notify.CooldownSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Notify.CooldownSeconds) * time.Second
}

// FrameInterval returns the pacing between capture cycles.
func (c *Config) FrameInterval() time.Duration {
	if c.Camera.PollIntervalMS > 0 {
		return time.Duration(c.Camera.PollIntervalMS) * time.Millisecond
	}
	if c.Camera.FPS > 0 {
		return time.Second / time.Duration(c.Camera.FPS)
	}
	return time.Second
}

// SendTimeout returns the per-message delivery timeout for the Messages backend.
func (c *Config) SendTimeout() time.Duration {
	if c.Notify.Messages.SendTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Notify.Messages.SendTimeout) * time.Second
}

// NtfyTimeout returns the HTTP request timeout for the ntfy backend.
func (c *Config) NtfyTimeout() time.Duration {
	if c.Notify.Ntfy.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Notify.Ntfy.RequestTimeout) * time.Second
}

// ROI returns the configured region of interest, if any. The slice form in the
// config file is [x, y, w, h] in frame pixel coordinates.
func (c *Config) ROI() (image.Rectangle, bool) {
	roi := c.Detection.RegionOfInterest
	if len(roi) != 4 {
		return image.Rectangle{}, false
	}
	return image.Rect(roi[0], roi[1], roi[0]+roi[2], roi[1]+roi[3]), true
}

// OsascriptBinary returns the osascript executable used for Messages delivery.
func (c *Config) OsascriptBinary() string {
	if bin := strings.TrimSpace(c.Notify.Messages.Binary); bin != "" {
		return bin
	}
	return "osascript"
}

// FFmpegBinary returns the ffmpeg executable name used by the ffmpeg capture backend.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
