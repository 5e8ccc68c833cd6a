package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var base = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Options controls where and how verbosely the process logs.
type Options struct {
	Level string
	// File is the rotating log file; empty logs to stdout only.
	File string
	JSON bool
}

// Setup replaces the package logger. It is safe to call once at startup.
func Setup(opts Options) error {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), os.ModePerm); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // megabytes
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	base = slog.New(handler)
	slog.SetDefault(base)
	base.Info("logger initialized", "level", handlerOpts.Level)
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// L exposes the structured logger for call sites that want attributes.
func L() *slog.Logger {
	return base
}

func Success(message string, args ...any) {
	base.Info("✅ "+message, args...)
}

func Error(message string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	base.Error("❌ "+message, args...)
}

func Warning(message string, args ...any) {
	base.Warn("⚠️ "+message, args...)
}

func Debug(message string, args ...any) {
	base.Debug("🐛 "+message, args...)
}

func Info(message string, args ...any) {
	base.Info("ℹ️ "+message, args...)
}

func Fatal(message string, err error) {
	Error(message, err)
	os.Exit(1)
}
