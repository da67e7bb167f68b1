package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const logFilePrefix = "cloudstorage-"

// LogWriters returns the extra log sinks requested by the config and a
// closer for them. With no LogDir both are no-ops.
func (c *Config) LogWriters() ([]io.Writer, func() error, error) {
	if c.LogDir == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := OpenLogFile(c.LogDir, c.LogMaxFiles, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return []io.Writer{f}, f.Close, nil
}

// OpenLogFile creates a timestamped log file in dir and prunes all but the
// newest maxFiles. The caller closes the file.
func OpenLogFile(dir string, maxFiles int, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, logFilePrefix+now.UTC().Format("2006-01-02T15-04-05")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, maxFiles); err != nil {
		// logging still works, only the cleanup failed
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}
	return f, nil
}

// pruneLogs removes the oldest log files once there are more than maxFiles
func pruneLogs(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if err != nil {
		return err
	}
	if len(files) <= maxFiles {
		return nil
	}

	// timestamped names sort chronologically
	slices.Sort(files)
	for _, stale := range files[:len(files)-maxFiles] {
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("remove %s: %w", stale, err)
		}
	}
	return nil
}
