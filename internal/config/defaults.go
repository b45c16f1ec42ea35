package config

const (
	defaultLogDir           = "~/.local/share/reel/logs"
	defaultHistoryPath      = "~/.local/share/reel/history.db"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultBatchWorkers     = 4
	defaultSizeTolerancePct = 10
	defaultWatchSettleMs    = 500
	defaultMinFreeMiB       = 512
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			HistoryPath: defaultHistoryPath,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Encode: Encode{
			SizeTolerancePct: defaultSizeTolerancePct,
		},
		Batch: Batch{
			Workers: defaultBatchWorkers,
		},
		Watch: Watch{
			SettleMs: defaultWatchSettleMs,
		},
		Preflight: Preflight{
			MinFreeMiB: defaultMinFreeMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
