// Package vivado provides utilities for invoking the Vivado batch tool.
package vivado

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Invoker is a reusable client for running Vivado batch scripts.
// It follows the http.Client pattern: create once, use many times.
// Safe for concurrent use as long as requests target distinct
// workspaces.
type Invoker struct {
	// VivadoPath is the path to the vivado binary.
	// Defaults to "vivado" (found in PATH).
	VivadoPath string

	// Timeout is the default timeout for invocations. Zero means no
	// internal timeout; callers can still cancel via context.
	Timeout time.Duration
}

// RunRequest holds per-invocation configuration for one batch run.
type RunRequest struct {
	// ScriptFile is the TCL script to source, relative to WorkDir.
	ScriptFile string

	// LogFile is where the tool's combined output is captured,
	// relative to WorkDir.
	LogFile string

	// WorkDir is the working directory for the subprocess. The tool
	// resolves relative source paths and drops checkpoints here.
	WorkDir string
}

// RunResult reports how one invocation ended. A non-zero exit code is
// not an error at this layer: the tool exits non-zero on some warning
// classes, and real success is judged from the parsed log.
type RunResult struct {
	ExitCode int
	Duration time.Duration
}

// NewInvoker creates an Invoker with default settings.
func NewInvoker() *Invoker {
	return &Invoker{VivadoPath: "vivado"}
}

// Run executes the tool in batch mode against the request's script,
// capturing stdout and stderr into the request's log file. It blocks
// until the tool exits or the context is cancelled.
//
// Errors are reserved for failures to launch or to capture output;
// the tool's own exit status travels in RunResult.ExitCode.
func (inv *Invoker) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.ScriptFile == "" {
		return nil, fmt.Errorf("script file is required")
	}
	if req.LogFile == "" {
		return nil, fmt.Errorf("log file is required")
	}

	ctxToUse := ctx
	var cancel context.CancelFunc
	if inv.Timeout > 0 {
		ctxToUse, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	vivadoPath := inv.VivadoPath
	if vivadoPath == "" {
		vivadoPath = "vivado"
	}

	// -nojournal and -nolog keep the tool from scattering its own
	// journal files; everything lands in the captured log.
	args := []string{
		"-mode", "batch",
		"-source", req.ScriptFile,
		"-nojournal", "-nolog",
	}

	logPath := req.LogFile
	if req.WorkDir != "" && !filepath.IsAbs(req.LogFile) {
		logPath = filepath.Join(req.WorkDir, req.LogFile)
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctxToUse, vivadoPath, args...)
	cmd.Dir = req.WorkDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	start := time.Now()
	runErr := cmd.Run()
	result := &RunResult{Duration: time.Since(start)}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Tool ran to completion with a non-zero status; the log
			// is parsed regardless.
			result.ExitCode = exitErr.ExitCode()
			if ctxErr := ctxToUse.Err(); ctxErr != nil {
				return result, fmt.Errorf("tool run aborted: %w", ctxErr)
			}
			return result, nil
		}
		return nil, fmt.Errorf("tool invocation failed: %w", runErr)
	}

	return result, nil
}
