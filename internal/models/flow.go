// Package models defines the shared value types for a synthesis flow:
// task kinds, source formats, and run records.
package models

import (
	"errors"
	"fmt"
	"time"
)

// TaskKind selects which tool pipeline a flow runs.
type TaskKind int

const (
	// TaskSynthesize runs out-of-context synthesis only.
	TaskSynthesize TaskKind = iota
	// TaskSynthesizeAndImplement runs synthesis followed by the full
	// place-and-route pipeline.
	TaskSynthesizeAndImplement
	// TaskGenerateBitstream is declared but has no defined pipeline.
	// Composing a script for it always fails.
	TaskGenerateBitstream
)

// String returns the string representation of TaskKind.
func (k TaskKind) String() string {
	switch k {
	case TaskSynthesize:
		return "synthesize"
	case TaskSynthesizeAndImplement:
		return "implement"
	case TaskGenerateBitstream:
		return "bitstream"
	default:
		return "unknown"
	}
}

// ParseTaskKind converts a CLI task name into a TaskKind.
func ParseTaskKind(s string) (TaskKind, error) {
	switch s {
	case "synthesize", "synth":
		return TaskSynthesize, nil
	case "implement", "impl":
		return TaskSynthesizeAndImplement, nil
	case "bitstream":
		return TaskGenerateBitstream, nil
	default:
		return 0, fmt.Errorf("unknown task kind %q (want synthesize, implement or bitstream)", s)
	}
}

// SourceFormat identifies the HDL dialect of a source file, inferred
// purely from the file-name suffix.
type SourceFormat int

const (
	FormatVerilog SourceFormat = iota
	FormatSystemVerilog
	FormatVHDL
	// FormatPrecompiledBinary marks an artifact whose content is assumed
	// already loaded via a prior checkpoint; it needs no read command.
	FormatPrecompiledBinary
)

// String returns the string representation of SourceFormat.
func (f SourceFormat) String() string {
	switch f {
	case FormatVerilog:
		return "verilog"
	case FormatSystemVerilog:
		return "systemverilog"
	case FormatVHDL:
		return "vhdl"
	case FormatPrecompiledBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// SourceFile is a design source path plus its inferred format.
type SourceFile struct {
	Path   string
	Format SourceFormat
}

// Flow run status constants
const (
	StatusPassed = "PASSED" // tool ran and the report carries the expected metrics
	StatusFailed = "FAILED" // tool ran but the report signals failure
)

// FlowRequest describes one end-to-end flow run.
type FlowRequest struct {
	// Descriptor is the path to the design descriptor consumed by the
	// external source generator. Ignored when Netlist is set.
	Descriptor string
	// Netlist is an optional pre-built netlist file used as the sole
	// source instead of running the generator.
	Netlist string
	// TopModule is the name of the top-level module.
	TopModule string
	// Part is the target device part identifier, e.g. "xc7a200tfbg484-2".
	Part string
	// Device is the catalog name the part and clock figures came from.
	Device string
	// Family is the device family tag handed to the log parser.
	Family string
	// ClockPeriodNs is the fallback clock period in nanoseconds.
	ClockPeriodNs float64
	// Constraints is an optional user-supplied constraints file. It has
	// the highest priority during resolution.
	Constraints string
	// DeviceConstraints is an optional device-default constraints file.
	DeviceConstraints string
	// Task selects the pipeline to run.
	Task TaskKind
	// Workspace is the directory the flow owns for this run.
	Workspace string
}

// Validate checks that the request carries the fields every flow needs.
func (r *FlowRequest) Validate() error {
	if r.TopModule == "" {
		return errors.New("top module name is required")
	}
	if r.Part == "" {
		return errors.New("device part is required")
	}
	if r.Workspace == "" {
		return errors.New("workspace directory is required")
	}
	if r.Netlist == "" && r.Descriptor == "" {
		return errors.New("either a design descriptor or a netlist is required")
	}
	if r.Netlist != "" && r.Descriptor != "" {
		return errors.New("descriptor and netlist are mutually exclusive")
	}
	if r.ClockPeriodNs <= 0 {
		return errors.New("clock period must be positive")
	}
	return nil
}

// RunRecord is one row of the flow history store.
type RunRecord struct {
	ID          string        // uuid for this run
	StartedAt   time.Time     // when the flow began
	Duration    time.Duration // wall-clock time of the whole flow
	TopModule   string        // top-level module name
	Part        string        // device part identifier
	Task        string        // task kind string
	Status      string        // StatusPassed or StatusFailed
	SlackNs     float64       // worst negative slack from the timing report
	LUTs        int           // slice LUT count from the utilization report
	Registers   int           // slice register count
	BlockRAMs   int           // block RAM tile count
	DSPs        int           // DSP block count
	ErrorCount  int           // number of ERROR lines in the tool log
	ToolExit    int           // subprocess exit code (informational, not gated)
}
