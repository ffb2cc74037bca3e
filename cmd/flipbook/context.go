package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/config"
	"github.com/ivlev/flipbook/internal/document"
	"github.com/ivlev/flipbook/internal/logging"
)

type commandContext struct {
	configFlag *string
	levelFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, levelFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		levelFlag:  levelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.levelFlag != nil && strings.TrimSpace(*c.levelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.levelFlag))
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger writes to the command's stderr so tests can capture it.
func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	return newLogger(cfg, cmd.ErrOrStderr())
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// openDocument loads path. A file without any layer element still opens, as
// an empty document.
func (c *commandContext) openDocument(cmd *cobra.Command, path string) (*document.Document, error) {
	logger := c.logger(cmd)
	doc, ok, err := document.Open(path, logger)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Warn("document has no layers", "path", path)
	}
	return doc, nil
}

// editDocument opens path, applies fn and saves the result when fn succeeds.
func (c *commandContext) editDocument(cmd *cobra.Command, path string, fn func(*document.Document) error) error {
	doc, err := c.openDocument(cmd, path)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if !doc.Modified() {
		return nil
	}
	return doc.Save(path)
}
