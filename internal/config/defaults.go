package config

const (
	defaultConfigPath           = "~/.config/cuesheet/config.toml"
	defaultReferenceFile        = "~/.config/cuesheet/reference.txt"
	defaultLogDir               = "~/.local/share/cuesheet/logs"
	defaultOutputDir            = "."
	defaultFrameRate            = 25
	defaultMergeToleranceFrames = 1
	defaultSessionHeader        = "SESSION NAME:"
	defaultSessionName          = "Unknown Session"
	defaultLLMBaseURL           = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel             = "google/gemini-3-flash-preview"
	defaultLLMTitle             = "Cuesheet Music Lookup"
	defaultLLMTimeoutSeconds    = 60
	defaultLLMRetryAttempts     = 1
	defaultMaxConcurrency       = 8
	defaultReportLocale         = "en"
	defaultMusicUsage           = "Background"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ReferenceFile: defaultReferenceFile,
			LogDir:        defaultLogDir,
			OutputDir:     defaultOutputDir,
		},
		Timeline: Timeline{
			FrameRate:            defaultFrameRate,
			MergeToleranceFrames: defaultMergeToleranceFrames,
			SessionHeader:        defaultSessionHeader,
			DefaultSession:       defaultSessionName,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Enrichment: Enrichment{
			Enabled:          true,
			ComposerBackfill: true,
			MaxConcurrency:   defaultMaxConcurrency,
		},
		Cache: Cache{
			Enabled: true,
			Path:    defaultCachePath(),
		},
		Report: Report{
			Locale:     defaultReportLocale,
			MusicUsage: defaultMusicUsage,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
