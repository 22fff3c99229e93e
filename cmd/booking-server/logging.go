package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AntonStoeckl/item-booking-go/shell/config"
)

const (
	logFileMaxSizeMB  = 100
	logFileMaxBackups = 5
	logFileMaxAgeDays = 30
)

// newLogHandler writes JSON logs to stdout and, with LOG_FILE set, also to a rotated file.
func newLogHandler(cfg config.Config) (slog.Handler, func()) {
	var out io.Writer = os.Stdout
	closeFn := func() {}

	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
			Compress:   true,
		}

		out = io.MultiWriter(os.Stdout, file)
		closeFn = func() { _ = file.Close() }
	}

	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel}), closeFn
}
