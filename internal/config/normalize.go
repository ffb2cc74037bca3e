package config

import (
	"strings"

	"github.com/ivlev/flipbook/internal/export"
)

func (c *Config) normalize() {
	c.Document.DefaultName = strings.TrimSpace(c.Document.DefaultName)
	if f, err := export.NormalizeFormat(c.Export.Format); err == nil {
		c.Export.Format = f.Name
	}
	if c.Export.Workers < 0 {
		c.Export.Workers = 0
	}
	c.normalizeLogging()
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = defaultLogFormat
	case "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
