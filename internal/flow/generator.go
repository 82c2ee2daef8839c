package flow

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ElaborationMode tells the source generator which timing context it is
// elaborating for. The mode travels with each request instead of living
// in process-wide state, so concurrent flows cannot race on it.
type ElaborationMode string

const (
	// ElaborationSynthesis elaborates outside simulation time; this is
	// what every flow run uses.
	ElaborationSynthesis ElaborationMode = "synthesis"
	// ElaborationSimulation elaborates inside simulation time.
	ElaborationSimulation ElaborationMode = "simulation"
)

// GenerateRequest describes one source-generation invocation.
type GenerateRequest struct {
	// Descriptor is the design descriptor path handed to the generator.
	Descriptor string
	// TopModule is the top-level module to generate sources for.
	TopModule string
	// OutDir is where generated sources and the <top>.lst manifest land.
	OutDir string
	// Elaboration is the timing context for this invocation.
	Elaboration ElaborationMode
}

// SourceGenerator turns a design descriptor into HDL source files plus
// a manifest listing them in order. Implementations must write the
// manifest to <OutDir>/<TopModule>.lst.
type SourceGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) error
}

// ExecGenerator runs an external generator binary. The expected
// contract: <binary> <descriptor> <top-module> <out-dir>, manifest
// written as <out-dir>/<top-module>.lst. The elaboration mode is
// passed via the SYNTHFLOW_ELABORATION environment variable, scoped to
// the subprocess.
type ExecGenerator struct {
	// GeneratorPath is the path to the generator binary.
	GeneratorPath string
}

// Generate implements SourceGenerator by invoking the external binary.
func (g *ExecGenerator) Generate(ctx context.Context, req GenerateRequest) error {
	if g.GeneratorPath == "" {
		return fmt.Errorf("generator binary not configured")
	}
	if req.Descriptor == "" || req.TopModule == "" || req.OutDir == "" {
		return fmt.Errorf("generator request needs descriptor, top module and output directory")
	}

	mode := req.Elaboration
	if mode == "" {
		mode = ElaborationSynthesis
	}

	cmd := exec.CommandContext(ctx, g.GeneratorPath, req.Descriptor, req.TopModule, req.OutDir)
	cmd.Env = append(os.Environ(), "SYNTHFLOW_ELABORATION="+string(mode))

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("source generation failed: %w (output: %s)", err, string(output))
	}
	return nil
}
