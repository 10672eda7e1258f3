// Package logutil builds the zap logger used across the application.
// The terminal owns stdout and stderr while a session runs, so logs only go to a rotated file.
package logutil

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the log section of the application configuration
type Config struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxDays    int    `mapstructure:"max_days"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// New returns a logger for cfg; an empty filename yields a no-op logger
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Filename == "" {
		return zap.NewNop(), nil
	}
	core := zapcore.NewCore(cfg.getEncoder(), cfg.getSyncer(), cfg.getLevel())
	return zap.New(core, cfg.getOptions()...), nil
}

// Validate checks level and format without touching the filesystem
func (cfg Config) Validate() error {
	if _, err := parseLevel(cfg.Level); err != nil {
		return err
	}
	switch cfg.Format {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("unsupported log format: %s", cfg.Format)
}

func parseLevel(s string) (zapcore.Level, error) {
	var l zapcore.Level
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

func (cfg Config) getLevel() zap.AtomicLevel {
	l, _ := parseLevel(cfg.Level)
	return zap.NewAtomicLevelAt(l)
}

func (cfg Config) getOptions() []zap.Option {
	return []zap.Option{zap.AddStacktrace(zapcore.FatalLevel), zap.AddCaller()}
}

func (cfg Config) getSyncer() zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	})
}

func (cfg Config) getEncoder() zapcore.Encoder {
	return getLoggerEncoder(cfg.Format)
}

func getLoggerEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewConsoleEncoder(encCfg)
}
