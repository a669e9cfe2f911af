package preflight

import (
	"fmt"
	"os"
	"strings"
)

// CameraProbe reports the current camera device snapshot.
type CameraProbe struct {
	Detected bool
	Device   string
	Readable bool
}

// ProbeCamera checks whether the capture device node is present and readable.
func ProbeCamera(device string) CameraProbe {
	device = strings.TrimSpace(device)
	if device == "" {
		device = "/dev/video0"
	}
	info, err := os.Stat(device)
	if err != nil || info.Mode()&os.ModeDevice == 0 {
		return CameraProbe{Device: device}
	}
	probe := CameraProbe{Detected: true, Device: device}
	probe.Readable = CheckCameraDevice(device).Passed
	return probe
}

// ListCameras scans the conventional device range for video nodes.
func ListCameras() []CameraProbe {
	var probes []CameraProbe
	for i := 0; i <= 20; i++ {
		device := fmt.Sprintf("/dev/video%d", i)
		if _, err := os.Stat(device); err != nil {
			continue
		}
		probes = append(probes, ProbeCamera(device))
	}
	return probes
}

// CameraDetail renders a display-friendly summary for status UIs.
func (p CameraProbe) CameraDetail() string {
	if !p.Detected {
		return "No camera detected"
	}
	if !p.Readable {
		return fmt.Sprintf("Camera on %s (no read access)", p.Device)
	}
	return fmt.Sprintf("Camera on %s", p.Device)
}
