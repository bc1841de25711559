package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-roads/internal/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggingConfig struct {
	Level      string `json:"level"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

func (c *LoggingConfig) validate() error {
	el := errors.NewErrorList()

	if c.Level != "" {
		if _, err := zapcore.ParseLevel(c.Level); err != nil {
			el.Add(fmt.Errorf("logging: %w", err))
		}
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		el.Add(fmt.Errorf("logging: rotation limits must not be negative"))
	}

	return el.Err()
}

func (c *LoggingConfig) buildLogger() *zap.SugaredLogger {
	var opts []logging.Opt
	if c.Level != "" {
		level, _ := zapcore.ParseLevel(c.Level)
		opts = append(opts, logging.WithLevel(level))
	}
	if c.File != "" {
		opts = append(opts, logging.WithFile(c.File, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays))
	}

	return logging.New(opts...)
}
