package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger writes flow events to a timestamped run log under the
// configured log directory and maintains a latest.log symlink pointing
// to the most recent run. It is thread-safe.
type FileLogger struct {
	logDir  string
	runLog  *os.File
	runFile string
	mu      sync.Mutex
}

// NewFileLogger creates a FileLogger writing under logDir, creating
// the directory if needed.
func NewFileLogger(logDir string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlink := filepath.Join(logDir, "latest.log")
	os.Remove(symlink)
	// Symlink failure (e.g. unsupported filesystem) is not fatal.
	_ = os.Symlink(filepath.Base(runFile), symlink)

	return &FileLogger{logDir: logDir, runLog: file, runFile: runFile}, nil
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

// Log writes one timestamped line to the run log.
func (fl *FileLogger) Log(format string, args ...any) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return
	}
	fmt.Fprintf(fl.runLog, "[%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
}

// Close flushes and closes the run log.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}
