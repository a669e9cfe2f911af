package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.Index < 0 {
		return errors.New("camera.index must not be negative")
	}
	switch c.Camera.Backend {
	case "auto", "v4l2", "ffmpeg":
	default:
		return fmt.Errorf("camera.backend must be auto, v4l2, or ffmpeg (got %q)", c.Camera.Backend)
	}
	if err := ensurePositiveMap(map[string]int{
		"camera.width":  c.Camera.Width,
		"camera.height": c.Camera.Height,
		"camera.fps":    c.Camera.FPS,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetection() error {
	if c.Detection.Confidence < 0 || c.Detection.Confidence > 1 {
		return errors.New("detection.confidence must be between 0 and 1")
	}
	for _, method := range c.Detection.Methods {
		switch method {
		case "edges", "color", "shape":
		default:
			return fmt.Errorf("detection.methods contains unknown method %q (valid: edges, color, shape)", method)
		}
	}
	if err := ensurePositiveMap(map[string]int{
		"detection.min_area":            c.Detection.MinArea,
		"detection.analysis_width":      c.Detection.AnalysisWidth,
		"detection.require_consecutive": c.Detection.RequireConsecutive,
	}); err != nil {
		return err
	}
	roi := c.Detection.RegionOfInterest
	if len(roi) != 0 && len(roi) != 4 {
		return errors.New("detection.region_of_interest must be empty or [x, y, w, h]")
	}
	if len(roi) == 4 {
		if roi[0] < 0 || roi[1] < 0 {
			return errors.New("detection.region_of_interest origin must not be negative")
		}
		if roi[2] <= 0 || roi[3] <= 0 {
			return errors.New("detection.region_of_interest width and height must be positive")
		}
	}
	return nil
}

func (c *Config) validateNotify() error {
	switch c.Notify.Backend {
	case "messages", "telegram", "ntfy", "none":
	default:
		return fmt.Errorf("notify.backend must be messages, telegram, ntfy, or none (got %q)", c.Notify.Backend)
	}
	if c.Notify.CooldownSeconds < 0 {
		return errors.New("notify.cooldown_seconds must not be negative")
	}
	switch c.Notify.Selection {
	case "fixed", "random":
	default:
		return fmt.Errorf("notify.selection must be fixed or random (got %q)", c.Notify.Selection)
	}

	if c.Notify.Backend == "none" {
		return nil
	}

	if len(c.Notify.Recipients) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/lookout/config.toml"
		}
		return fmt.Errorf("notify.recipient is required when notify.backend is %q. Add a [[notify.recipient]] block to %s (create with 'lookout config init')", c.Notify.Backend, defaultPath)
	}
	for i, recipient := range c.Notify.Recipients {
		if recipient.Address == "" {
			return fmt.Errorf("notify.recipient[%d].address must be set", i)
		}
	}

	switch c.Notify.Backend {
	case "messages":
		switch c.Notify.Messages.Service {
		case "iMessage", "SMS":
		default:
			return fmt.Errorf("notify.messages.service must be iMessage or SMS (got %q)", c.Notify.Messages.Service)
		}
		if c.Notify.Messages.SendTimeout <= 0 {
			return errors.New("notify.messages.send_timeout must be positive (seconds)")
		}
	case "telegram":
		if strings.TrimSpace(c.Notify.Telegram.Token) == "" {
			return errors.New("notify.telegram.token must be set when notify.backend is telegram (or set LOOKOUT_TELEGRAM_TOKEN)")
		}
	case "ntfy":
		if strings.TrimSpace(c.Notify.Ntfy.Topic) == "" {
			return errors.New("notify.ntfy.topic must be set when notify.backend is ntfy")
		}
		if c.Notify.Ntfy.RequestTimeout <= 0 {
			return errors.New("notify.ntfy.request_timeout must be positive (seconds)")
		}
	}
	return nil
}

func (c *Config) validateStore() error {
	if strings.TrimSpace(c.Store.HistoryDB) == "" {
		return errors.New("store.history_db must be set")
	}
	if c.Snapshots.Enabled && c.Snapshots.ThumbnailWidth <= 0 {
		return errors.New("snapshots.thumbnail_width must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
