package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCamera()
	c.normalizeDetection()
	if err := c.normalizeNotify(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Store.HistoryDB) == "" {
		c.Store.HistoryDB = defaultHistoryDB
	}
	if c.Store.HistoryDB, err = expandPath(c.Store.HistoryDB); err != nil {
		return fmt.Errorf("store.history_db: %w", err)
	}
	if c.Store.RetentionDays < 0 {
		c.Store.RetentionDays = 0
	}
	if strings.TrimSpace(c.Snapshots.Dir) == "" {
		c.Snapshots.Dir = defaultSnapshotsDir
	}
	if c.Snapshots.Dir, err = expandPath(c.Snapshots.Dir); err != nil {
		return fmt.Errorf("snapshots.dir: %w", err)
	}
	if c.Snapshots.ThumbnailWidth <= 0 {
		c.Snapshots.ThumbnailWidth = defaultThumbnailWidth
	}
	return nil
}

func (c *Config) normalizeCamera() {
	c.Camera.Device = strings.TrimSpace(c.Camera.Device)
	c.Camera.Backend = strings.ToLower(strings.TrimSpace(c.Camera.Backend))
	if c.Camera.Backend == "" {
		c.Camera.Backend = defaultCameraBackend
	}
	if c.Camera.Width <= 0 {
		c.Camera.Width = defaultCameraWidth
	}
	if c.Camera.Height <= 0 {
		c.Camera.Height = defaultCameraHeight
	}
	if c.Camera.FPS <= 0 {
		c.Camera.FPS = defaultCameraFPS
	}
	if c.Camera.PollIntervalMS < 0 {
		c.Camera.PollIntervalMS = 0
	}
}

func (c *Config) normalizeDetection() {
	if len(c.Detection.Methods) == 0 {
		c.Detection.Methods = defaultMethods()
		return
	}
	methods := make([]string, 0, len(c.Detection.Methods))
	seen := make(map[string]struct{}, len(c.Detection.Methods))
	for _, method := range c.Detection.Methods {
		normalized := strings.ToLower(strings.TrimSpace(method))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		methods = append(methods, normalized)
	}
	if len(methods) == 0 {
		methods = defaultMethods()
	}
	c.Detection.Methods = methods
}

func (c *Config) normalizeNotify() error {
	c.Notify.Backend = strings.ToLower(strings.TrimSpace(c.Notify.Backend))
	if c.Notify.Backend == "" {
		c.Notify.Backend = defaultNotifyBackend
	}
	c.Notify.Selection = strings.ToLower(strings.TrimSpace(c.Notify.Selection))
	if c.Notify.Selection == "" {
		c.Notify.Selection = defaultSelection
	}
	c.Notify.Message = strings.TrimSpace(c.Notify.Message)
	if c.Notify.Message == "" {
		c.Notify.Message = defaultMessage
	}

	recipients := make([]Recipient, 0, len(c.Notify.Recipients))
	for _, recipient := range c.Notify.Recipients {
		recipient.Name = strings.TrimSpace(recipient.Name)
		recipient.Address = strings.TrimSpace(recipient.Address)
		recipient.Message = strings.TrimSpace(recipient.Message)
		if recipient.Name == "" && recipient.Address == "" {
			continue
		}
		recipients = append(recipients, recipient)
	}
	c.Notify.Recipients = recipients

	switch {
	case strings.EqualFold(c.Notify.Messages.Service, "imessage"), strings.TrimSpace(c.Notify.Messages.Service) == "":
		c.Notify.Messages.Service = "iMessage"
	case strings.EqualFold(c.Notify.Messages.Service, "sms"):
		c.Notify.Messages.Service = "SMS"
	default:
		c.Notify.Messages.Service = strings.TrimSpace(c.Notify.Messages.Service)
	}
	c.Notify.Messages.Binary = strings.TrimSpace(c.Notify.Messages.Binary)
	if c.Notify.Messages.SendTimeout <= 0 {
		c.Notify.Messages.SendTimeout = defaultSendTimeout
	}

	c.Notify.Telegram.Token = strings.TrimSpace(c.Notify.Telegram.Token)
	if c.Notify.Telegram.Token == "" {
		if value, ok := os.LookupEnv("LOOKOUT_TELEGRAM_TOKEN"); ok {
			c.Notify.Telegram.Token = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("TELEGRAM_BOT_TOKEN"); ok {
			c.Notify.Telegram.Token = strings.TrimSpace(value)
		}
	}

	c.Notify.Ntfy.Topic = strings.TrimSpace(c.Notify.Ntfy.Topic)
	if c.Notify.Ntfy.Topic == "" {
		if value, ok := os.LookupEnv("LOOKOUT_NTFY_TOPIC"); ok {
			c.Notify.Ntfy.Topic = strings.TrimSpace(value)
		}
	}
	if c.Notify.Ntfy.RequestTimeout <= 0 {
		c.Notify.Ntfy.RequestTimeout = defaultNtfyRequestTimeout
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
