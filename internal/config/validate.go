package config

import (
	"errors"
	"fmt"

	"github.com/ivlev/flipbook/internal/export"
	"github.com/ivlev/flipbook/internal/retime"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	if c.Import.DPI <= 0 {
		return errors.New("import.dpi must be positive")
	}
	return c.validateLogging()
}

func (c *Config) validateExport() error {
	if _, err := export.NormalizeFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.Export.Quality < 0 || c.Export.Quality > 100 {
		return errors.New("export.quality must be between 0 and 100")
	}
	if c.Export.CurveOpacity < 0 || c.Export.CurveOpacity > 1 {
		return errors.New("export.curve_opacity must be between 0 and 1")
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return errors.New("export.width and export.height must be positive")
	}
	if c.Export.FPS <= 0 {
		return fmt.Errorf("export.fps: %w", retime.ErrInvalidRate)
	}
	if c.Export.ExportFPS < 0 {
		return fmt.Errorf("export.export_fps: %w", retime.ErrInvalidRate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
