// Package report parses the external tool's log into a structured flow
// report and renders report summaries.
package report

import (
	"fmt"
	"strings"
	"time"
)

// FlowReport is the parsed outcome of one tool run. Absent metrics are
// how failure surfaces: the driver never gates on the tool's exit
// status, so callers must judge success from the report itself.
type FlowReport struct {
	// Family is the device family tag the log was parsed under.
	Family string

	// SlackNs is the worst slack from the final timing report, in
	// nanoseconds. Negative means timing failed.
	SlackNs float64
	// TimingMet reports whether the final timing report said MET.
	TimingMet bool
	// hasTiming records whether any timing report was found at all.
	hasTiming bool

	// Utilization counts from the trailing utilization report.
	LUTs      int
	Registers int
	BlockRAMs int
	DSPs      int
	// hasUtilization records whether the utilization table was found.
	hasUtilization bool

	// Errors holds every ERROR line from the log, in order.
	Errors []string
}

// Succeeded reports whether the run produced the metrics a completed
// flow always has and logged no tool errors.
func (r *FlowReport) Succeeded() bool {
	return len(r.Errors) == 0 && r.hasUtilization
}

// HasTiming reports whether a timing report was parsed.
func (r *FlowReport) HasTiming() bool {
	return r.hasTiming
}

// HasUtilization reports whether the utilization table was parsed.
func (r *FlowReport) HasUtilization() bool {
	return r.hasUtilization
}

// Summary renders the report as Markdown.
func (r *FlowReport) Summary() string {
	var sb strings.Builder
	sb.WriteString("# Flow report\n\n")
	fmt.Fprintf(&sb, "- Device family: %s\n", r.Family)

	if r.hasTiming {
		status := "VIOLATED"
		if r.TimingMet {
			status = "MET"
		}
		fmt.Fprintf(&sb, "- Timing: %s, worst slack %.3f ns\n", status, r.SlackNs)
	} else {
		sb.WriteString("- Timing: no timing report found\n")
	}

	if r.hasUtilization {
		sb.WriteString("\n| Resource | Used |\n|---|---|\n")
		fmt.Fprintf(&sb, "| LUTs | %d |\n", r.LUTs)
		fmt.Fprintf(&sb, "| Registers | %d |\n", r.Registers)
		fmt.Fprintf(&sb, "| Block RAMs | %d |\n", r.BlockRAMs)
		fmt.Fprintf(&sb, "| DSPs | %d |\n", r.DSPs)
	} else {
		sb.WriteString("- Utilization: no utilization report found\n")
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "\n## Tool errors (%d)\n\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	return sb.String()
}

// ConsoleSummary renders a compact single-paragraph summary for the
// console logger.
func (r *FlowReport) ConsoleSummary(duration time.Duration) string {
	if !r.Succeeded() {
		return fmt.Sprintf("flow FAILED after %s (%d tool error(s))",
			duration.Round(time.Second), len(r.Errors))
	}
	timing := "timing report missing"
	if r.hasTiming {
		if r.TimingMet {
			timing = fmt.Sprintf("timing MET (slack %.3f ns)", r.SlackNs)
		} else {
			timing = fmt.Sprintf("timing VIOLATED (slack %.3f ns)", r.SlackNs)
		}
	}
	return fmt.Sprintf("flow PASSED in %s: %s, %d LUTs, %d registers",
		duration.Round(time.Second), timing, r.LUTs, r.Registers)
}
