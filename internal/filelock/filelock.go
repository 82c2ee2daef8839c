// Package filelock guards flow workspaces against concurrent runs and
// provides atomic writes for generated flow artifacts.
//
// Flows for different workspaces are independent and may run in
// parallel; two flows sharing one workspace would clobber each other's
// script, constraints, and log files, so the driver holds an exclusive
// lock on the workspace for the duration of a run.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockFileName is the lock file kept inside each workspace directory.
const lockFileName = ".synthflow.lock"

// WorkspaceLock is an exclusive, process-level lock on one workspace
// directory.
type WorkspaceLock struct {
	flock *flock.Flock
	path  string
}

// NewWorkspaceLock creates a lock for the given workspace directory.
// The workspace must already exist.
func NewWorkspaceLock(workspace string) *WorkspaceLock {
	path := filepath.Join(workspace, lockFileName)
	return &WorkspaceLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Acquire takes the lock without blocking. It fails if another flow
// currently owns the workspace; waiting silently would hide a caller
// bug (two flows pointed at one directory), so contention is an error.
func (wl *WorkspaceLock) Acquire() error {
	acquired, err := wl.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock workspace via %s: %w", wl.path, err)
	}
	if !acquired {
		return fmt.Errorf("workspace is locked by another flow (%s)", wl.path)
	}
	return nil
}

// Release gives up the lock.
func (wl *WorkspaceLock) Release() error {
	if err := wl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock workspace via %s: %w", wl.path, err)
	}
	return nil
}

// AtomicWrite writes data to path via a temp file and rename so readers
// never observe a partially written script or constraints file.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory as the target so the rename stays on one filesystem.
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
