package preflight

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"lookout/internal/config"
	"lookout/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCameraDevice verifies that the capture device node exists and is
// readable by this process.
func CheckCameraDevice(device string) Result {
	const name = "Camera"

	info, err := os.Stat(device)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (not present)", device)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", device, err)}
	}
	if info.Mode()&os.ModeDevice == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a device node)", device)}
	}
	if err := unix.Access(device, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", device, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", device)}
}

// CheckNotifyBackend verifies the configured delivery backend is ready to
// send: required binaries on PATH and required settings present.
func CheckNotifyBackend(_ context.Context, cfg *config.Config) Result {
	const name = "Notifications"

	switch cfg.Notify.Backend {
	case "none":
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	case "messages":
		statuses := deps.CheckBinaries([]deps.Requirement{{
			Name:    "osascript",
			Command: cfg.OsascriptBinary(),
		}})
		if !statuses[0].Available {
			return Result{Name: name, Detail: statuses[0].Detail}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Messages via %s (%s)", cfg.OsascriptBinary(), cfg.Notify.Messages.Service)}
	case "telegram":
		if strings.TrimSpace(cfg.Notify.Telegram.Token) == "" {
			return Result{Name: name, Detail: "telegram token missing"}
		}
		return Result{Name: name, Passed: true, Detail: "Telegram bot configured"}
	case "ntfy":
		topic := strings.TrimSpace(cfg.Notify.Ntfy.Topic)
		if topic == "" {
			return Result{Name: name, Detail: "ntfy topic missing"}
		}
		parsed, err := url.Parse(topic)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return Result{Name: name, Detail: fmt.Sprintf("ntfy topic %q is not a valid URL", topic)}
		}
		return Result{Name: name, Passed: true, Detail: "ntfy topic " + topic}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unknown backend %q", cfg.Notify.Backend)}
	}
}

// CheckSystemDeps evaluates all system-level binary dependencies for the
// given config. Both the daemon and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	ffmpegOptional := cfg.Camera.Backend == "v4l2"
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Capture fallback when native V4L2 is unavailable",
			Optional:    ffmpegOptional,
		},
	}
	if cfg.Notify.Backend == "messages" {
		requirements = append(requirements, deps.Requirement{
			Name:        "osascript",
			Command:     cfg.OsascriptBinary(),
			Description: "Required for Apple Messages delivery",
		})
	}
	return deps.CheckBinaries(requirements)
}
