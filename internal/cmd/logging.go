package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/steveyegge/sendtoftrack/internal/config"
)

// setupLogger builds the diagnostic logger. Console progress does not go
// through it. Every record carries the run id so appended log files can be
// split per run.
func setupLogger(level, file string, stderr io.Writer) (*slog.Logger, func(), error) {
	logLevel, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, nil, err
	}

	w := stderr
	closeFn := func() {}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) //nolint:gosec // G304: operator-supplied log path
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	return logger.With("run_id", uuid.NewString()), closeFn, nil
}
