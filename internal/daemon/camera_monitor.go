package daemon

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"lookout/internal/config"
	"lookout/internal/logging"
	"lookout/internal/preflight"
)

// cameraMonitor tracks whether the configured capture device is attached.
// It prefers udev netlink hotplug events and falls back to polling the
// device node when the netlink socket is unavailable.
type cameraMonitor struct {
	cfg    *config.Config
	logger *slog.Logger
	device string
	poll   time.Duration

	present atomic.Bool
	netlink atomic.Bool

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
	wg      sync.WaitGroup
}

func newCameraMonitor(cfg *config.Config, logger *slog.Logger) *cameraMonitor {
	if cfg == nil {
		return nil
	}
	return &cameraMonitor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "camera-monitor"),
		device: cfg.DevicePath(),
		poll:   5 * time.Second,
	}
}

// Start begins watching for camera attach and detach events.
func (m *cameraMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	m.present.Store(preflight.ProbeCamera(m.device).Detected)
	m.quit = make(chan struct{})
	m.running = true
	quit := m.quit

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; falling back to device polling",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldImpact, "camera hotplug events detected with up to one poll interval of delay"))
		m.wg.Add(1)
		go m.pollLoop(ctx, quit)
		return nil
	}

	m.conn = conn
	m.netlink.Store(true)
	m.wg.Add(1)
	go m.monitorLoop(ctx, quit)

	m.logger.Info("camera monitor started",
		logging.String(logging.FieldEventType, "camera_monitor_started"),
		logging.String(logging.FieldDevice, m.device))
	return nil
}

// Stop shuts down the monitor.
func (m *cameraMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
	m.netlink.Store(false)
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("camera monitor stopped",
		logging.String(logging.FieldEventType, "camera_monitor_stopped"))
}

// Present reports whether the configured device node was last seen attached.
func (m *cameraMonitor) Present() bool {
	if m == nil {
		return false
	}
	return m.present.Load()
}

// NetlinkActive reports whether hotplug events arrive via netlink.
func (m *cameraMonitor) NetlinkActive() bool {
	if m == nil {
		return false
	}
	return m.netlink.Load()
}

// monitorLoop reads netlink events and records camera attach/detach.
func (m *cameraMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	defer m.wg.Done()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, videoMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"))
		}
	}
}

// pollLoop periodically probes the device node and logs transitions.
func (m *cameraMonitor) pollLoop(ctx context.Context, quit <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			detected := preflight.ProbeCamera(m.device).Detected
			if detected != m.present.Swap(detected) {
				m.logTransition(detected, "poll")
			}
		}
	}
}

// videoMatcher selects video4linux add and remove events.
func videoMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

// handleEvent processes a matched uevent.
func (m *cameraMonitor) handleEvent(uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj))
		return
	}
	if devname != m.device {
		m.logger.Debug("ignoring event for non-configured device",
			logging.String(logging.FieldDevice, devname),
			logging.String("configured_device", m.device))
		return
	}

	attached := uevent.Action == netlink.ADD
	if attached != m.present.Swap(attached) {
		m.logTransition(attached, "netlink")
	}
}

func (m *cameraMonitor) logTransition(attached bool, via string) {
	if attached {
		m.logger.Info("camera attached",
			logging.String(logging.FieldEventType, "camera_attached"),
			logging.String(logging.FieldDevice, m.device),
			logging.String("via", via))
		return
	}
	m.logger.Warn("camera detached",
		logging.String(logging.FieldEventType, "camera_detached"),
		logging.String(logging.FieldDevice, m.device),
		logging.String("via", via),
		logging.String(logging.FieldImpact, "frame capture will fail until the camera returns"))
}

// extractDeviceName gets the device path from a uevent.
func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if strings.HasPrefix(devname, "/") {
			return devname
		}
		return "/dev/" + devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}
