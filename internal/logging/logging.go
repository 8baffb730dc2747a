// Package logging builds the zap logger from the logging configuration.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/zot/dock/internal/config"
)

// Name is the root logger name.
const Name = "dock"

// Level returns the effective level: debug whenever verbosity is set,
// otherwise the configured level name.
func Level(cfg config.LoggingConfig) (zapcore.Level, error) {
	if cfg.Verbosity > 0 {
		return zapcore.DebugLevel, nil
	}
	if cfg.Level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", cfg.Level)
	}
	return l, nil
}

// New returns a logger writing to console and, when cfg.File is set, to a
// rotated JSON log file.
func New(cfg config.LoggingConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl, err := Level(cfg)
	if err != nil {
		return nil, err
	}
	level := zap.NewAtomicLevelAt(lvl)

	cores := []zapcore.Core{zapcore.NewCore(encoder(cfg.Format), console, level)}
	if cfg.File != "" {
		// lumberjack handles rotation; the file is always JSON.
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), file, level))
	}

	opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if cfg.Verbosity > 1 {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...).Named(Name), nil
}

func encoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	if format == "json" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	ec.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(name + ".")
	}
	return zapcore.NewConsoleEncoder(ec)
}
