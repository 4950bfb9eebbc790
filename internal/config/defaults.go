package config

const (
	defaultOutputDir            = "~/snapsort/output"
	defaultLogDir               = "~/snapsort/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
	defaultTriggerPhrase        = "sending photos"
	defaultPollTimeoutSeconds   = 30
	defaultNotifyRequestTimeout = 10

	// stagingDirName is the directory created under the output root when
	// paths.staging_dir is not set explicitly.
	stagingDirName = "_inbox"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Telegram: Telegram{
			PollTimeoutSeconds: defaultPollTimeoutSeconds,
		},
		Collector: Collector{
			TriggerPhrase:       defaultTriggerPhrase,
			AllowImageDocuments: true,
		},
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
	}
}
