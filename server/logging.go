package server

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// SetupLogging points the default slog logger at logs/app.log and stdout.
// Under air only the file is written. The returned file must be closed by
// the caller.
func SetupLogging(dir string, debug bool) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	logFileName := filepath.Join(dir, "app.log")
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	var out io.Writer = logFile
	if os.Getenv("AIR_RESTART_COUNT") == "" {
		out = io.MultiWriter(os.Stdout, logFile)
	}

	logOpts := slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &logOpts)))

	return logFile, nil
}
