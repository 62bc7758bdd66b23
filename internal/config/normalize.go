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
	c.normalizeGitHub()
	c.normalizeSchedules()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeGitHub() {
	if c.GitHub.Token == "" {
		if value, ok := os.LookupEnv("GITHUB_TOKEN"); ok {
			c.GitHub.Token = value
		}
	}
	c.GitHub.Token = strings.TrimSpace(c.GitHub.Token)
	c.GitHub.BaseURL = strings.TrimRight(strings.TrimSpace(c.GitHub.BaseURL), "/")
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = defaultGitHubBaseURL
	}
	if c.GitHub.RequestTimeout <= 0 {
		c.GitHub.RequestTimeout = defaultGitHubRequestTimeout
	}
}

func (c *Config) normalizeSchedules() {
	if c.Discovery.InitialDelaySeconds < 0 {
		c.Discovery.InitialDelaySeconds = defaultDiscoveryInitialDelay
	}
	if c.Discovery.IntervalMinutes <= 0 {
		c.Discovery.IntervalMinutes = defaultDiscoveryIntervalMinutes
	}
	if c.Discovery.PageSize <= 0 {
		c.Discovery.PageSize = defaultDiscoveryPageSize
	}
	if c.Scanner.InitialDelaySeconds < 0 {
		c.Scanner.InitialDelaySeconds = defaultScannerInitialDelay
	}
	if c.Scanner.IntervalMinutes <= 0 {
		c.Scanner.IntervalMinutes = defaultScannerIntervalMinutes
	}
	if c.Scanner.FreshnessHours <= 0 {
		c.Scanner.FreshnessHours = defaultScannerFreshnessHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
