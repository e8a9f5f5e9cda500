package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logConfig struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `mapstructure:"level"`

	// File is the rotated log file. Empty means stderr only.
	File string `mapstructure:"file"`

	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`

	// Verbose enables MTProto debug logs.
	Verbose bool `mapstructure:"verbose"`
}

type loggers struct {
	app     *slog.Logger
	mtproto *zap.Logger
	closer  io.Closer
}

func (l *loggers) Close() {
	_ = l.mtproto.Sync()
	if l.closer != nil {
		_ = l.closer.Close()
	}
}

// newLoggers builds the application slog logger and the zap logger handed
// to the MTProto client. Both write to stderr and, when configured, to the
// same rotated JSON file.
func newLoggers(cfg logConfig) (*loggers, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		return nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}

	zapLevel := zapcore.InfoLevel
	if cfg.Verbose {
		zapLevel = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stderr), zapLevel),
	}
	var out io.Writer = os.Stderr
	l := &loggers{}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}

		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(fileWriter),
			zapLevel,
		))
		out = io.MultiWriter(os.Stderr, fileWriter)
		l.closer = fileWriter
	}

	l.mtproto = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named("mtproto")
	l.app = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return l, nil
}
