package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggingConfig struct {
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

func (c LoggingConfig) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}

// Build creates the logger; verbose forces debug level.
func (c LoggingConfig) Build(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	if c.Format == "console" {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}
