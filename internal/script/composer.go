package script

import (
	"errors"
	"fmt"

	"github.com/harrison/synthflow/internal/models"
)

// ErrBitstreamNotImplemented reports a request for the declared but
// unimplemented bitstream task. Composition fails outright rather than
// emitting a partial script.
var ErrBitstreamNotImplemented = errors.New("bitstream generation is not implemented")

// Pipeline stage tags used in checkpoint file names. Each checkpoint
// name is unique per stage so a later stage never overwrites an
// earlier stage's artifact.
const (
	StageSynth        = "synth"
	StagePlace        = "place"
	StagePlacePhysOpt = "place_phys_opt"
	StageRoute        = "route"
	StageRoutePhysOpt = "route_phys_opt"
)

// CheckpointName returns the checkpoint file name for a pipeline stage.
func CheckpointName(topModule, stage string) string {
	return fmt.Sprintf("%s_after_%s.dcp", topModule, stage)
}

func checkpointCommand(topModule, stage string) string {
	return "write_checkpoint -force " + CheckpointName(topModule, stage)
}

// Compose builds the complete ordered command script for one flow run.
//
// The sequence is: one read command per source in caller order, one
// constraint read, the task-specific pipeline, and a trailing
// utilization report. Composition is pure: the same inputs always
// yield the same script, and any classification failure or
// unimplemented task kind aborts before a single line could reach disk.
//
// An empty source list is not an error here; the resulting script
// reads no design sources and the tool's own failure surfaces through
// the parsed report.
func Compose(sources []string, constraintsFile string, task models.TaskKind, topModule, part string) (*FlowScript, error) {
	s := &FlowScript{}

	for _, src := range sources {
		cmd, err := ReadCommand(src)
		if err != nil {
			return nil, err
		}
		// Precompiled binaries need no read command.
		if cmd == "" {
			continue
		}
		s.Append(cmd)
	}

	s.Append("read_xdc " + constraintsFile)

	switch task {
	case models.TaskSynthesize:
		appendSynthesis(s, topModule, part)
	case models.TaskSynthesizeAndImplement:
		appendSynthesis(s, topModule, part)
		appendImplementation(s, topModule)
	case models.TaskGenerateBitstream:
		return nil, ErrBitstreamNotImplemented
	default:
		return nil, fmt.Errorf("unknown task kind %v", task)
	}

	s.Append("report_utilization")
	return s, nil
}

// appendSynthesis emits out-of-context synthesis, a checkpoint, and a
// timing report.
func appendSynthesis(s *FlowScript, topModule, part string) {
	s.Append(fmt.Sprintf("synth_design -part %s -top %s -mode out_of_context", part, topModule))
	s.Append(checkpointCommand(topModule, StageSynth))
	s.Append("report_timing")
}

// appendImplementation emits the place-and-route pipeline. Timing is
// reported and a checkpoint saved after every stage that moves logic,
// so a failed later stage still leaves inspectable earlier artifacts.
func appendImplementation(s *FlowScript, topModule string) {
	s.Append("opt_design")
	s.Append("place_design -directive Explore")
	s.Append("report_timing")
	s.Append(checkpointCommand(topModule, StagePlace))
	s.Append("phys_opt_design")
	s.Append("report_timing")
	s.Append(checkpointCommand(topModule, StagePlacePhysOpt))
	s.Append("route_design")
	s.Append(checkpointCommand(topModule, StageRoute))
	s.Append("report_timing")
	s.Append("phys_opt_design")
	s.Append("report_timing")
	s.Append(checkpointCommand(topModule, StageRoutePhysOpt))
}
