package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output targets
const (
	OutputFile   = "file"
	OutputStderr = "stderr"
	OutputBoth   = "both"
)

// Config defines logging configuration
type Config struct {
	Level      string
	Format     string // console or json
	Output     string // file, stderr or both
	Dir        string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// FileName returns the hourly log file name used for t, e.g. 2026_10_18_09.log
func FileName(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%04d_%02d_%02d_%02d.log", t.Year(), int(t.Month()), t.Day(), t.Hour())
}

// New builds a zap logger from the configuration
func New(config Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	newEncoder := func() zapcore.Encoder {
		if config.Format == "json" {
			return zapcore.NewJSONEncoder(encoderConfig)
		}
		encoderConfig.ConsoleSeparator = "|"
		return zapcore.NewConsoleEncoder(encoderConfig)
	}

	var cores []zapcore.Core

	if config.Output == OutputStderr || config.Output == OutputBoth {
		cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stderr), level))
	}

	if config.Output == OutputFile || config.Output == OutputBoth {
		writer, err := fileWriter(config)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(writer), level))
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("unknown log output %q", config.Output)
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// Init builds the logger and installs it as the zap global
func Init(config Config) (*zap.Logger, error) {
	log, err := New(config)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// fileWriter returns a rotating writer in the configured directory
func fileWriter(config Config) (io.Writer, error) {
	dir := config.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName(time.Now())),
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}, nil
}
