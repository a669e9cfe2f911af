package config

const (
	defaultLogDir             = "~/.local/share/lookout/logs"
	defaultHistoryDB          = "~/.local/share/lookout/history.db"
	defaultSnapshotsDir       = "~/.local/share/lookout/snapshots"
	defaultLogRetentionDays   = 14
	defaultStoreRetentionDays = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultCameraBackend      = "auto"
	defaultCameraWidth        = 640
	defaultCameraHeight       = 480
	defaultCameraFPS          = 15
	defaultPollIntervalMS     = 250
	defaultConfidence         = 0.5
	defaultMinArea            = 1200
	defaultAnalysisWidth      = 320
	defaultRequireConsecutive = 1
	defaultNotifyBackend      = "messages"
	defaultCooldownSeconds    = 60
	defaultSelection          = "fixed"
	defaultMessage            = "🚨 Phone detected!"
	defaultMessagesService    = "iMessage"
	defaultSendTimeout        = 30
	defaultNtfyRequestTimeout = 10
	defaultThumbnailWidth     = 320
)

func defaultMethods() []string {
	return []string{"edges", "color", "shape"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Camera: Camera{
			Backend:        defaultCameraBackend,
			Width:          defaultCameraWidth,
			Height:         defaultCameraHeight,
			FPS:            defaultCameraFPS,
			PollIntervalMS: defaultPollIntervalMS,
		},
		Detection: Detection{
			Confidence:         defaultConfidence,
			Methods:            defaultMethods(),
			MinArea:            defaultMinArea,
			AnalysisWidth:      defaultAnalysisWidth,
			RequireConsecutive: defaultRequireConsecutive,
		},
		Notify: Notify{
			Backend:         defaultNotifyBackend,
			CooldownSeconds: defaultCooldownSeconds,
			Selection:       defaultSelection,
			Message:         defaultMessage,
			Messages: Messages{
				Service:     defaultMessagesService,
				SendTimeout: defaultSendTimeout,
			},
			Ntfy: Ntfy{
				RequestTimeout: defaultNtfyRequestTimeout,
			},
		},
		Store: Store{
			HistoryDB:     defaultHistoryDB,
			RetentionDays: defaultStoreRetentionDays,
		},
		Snapshots: Snapshots{
			Enabled:        true,
			Dir:            defaultSnapshotsDir,
			ThumbnailWidth: defaultThumbnailWidth,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
