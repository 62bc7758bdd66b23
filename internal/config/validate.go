package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGitHub(); err != nil {
		return err
	}
	if err := c.validateSchedules(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGitHub() error {
	parsed, err := url.Parse(c.GitHub.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("github.base_url %q is not an absolute URL", c.GitHub.BaseURL)
	}
	return nil
}

func (c *Config) validateSchedules() error {
	if c.Discovery.PageSize > 100 {
		return errors.New("discovery.page_size must not exceed 100 (GitHub search page limit)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	return nil
}
