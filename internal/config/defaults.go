package config

const (
	defaultDataDir                  = "~/.local/share/octostore"
	defaultLogDir                   = "~/.local/share/octostore/logs"
	defaultAPIBind                  = "127.0.0.1:7410"
	defaultGitHubBaseURL            = "https://api.github.com"
	defaultGitHubRequestTimeout     = 30
	defaultDiscoveryInitialDelay    = 5
	defaultDiscoveryIntervalMinutes = 360
	defaultDiscoveryPageSize        = 100
	defaultScannerInitialDelay      = 5
	defaultScannerIntervalMinutes   = 360
	defaultScannerFreshnessHours    = 24
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		GitHub: GitHub{
			BaseURL:        defaultGitHubBaseURL,
			RequestTimeout: defaultGitHubRequestTimeout,
		},
		Discovery: Discovery{
			InitialDelaySeconds: defaultDiscoveryInitialDelay,
			IntervalMinutes:     defaultDiscoveryIntervalMinutes,
			PageSize:            defaultDiscoveryPageSize,
		},
		Scanner: Scanner{
			InitialDelaySeconds: defaultScannerInitialDelay,
			IntervalMinutes:     defaultScannerIntervalMinutes,
			FreshnessHours:      defaultScannerFreshnessHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
