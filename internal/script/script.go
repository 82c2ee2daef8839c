// Package script generates the TCL flow script that drives the external
// synthesis tool: source read commands, constraint selection, and the
// ordered per-task command pipeline.
package script

import "strings"

// FlowScript is an append-only ordered list of tool command lines.
// Line order is significant: the downstream tool resolves overlapping
// definitions by read order, so the composer never reorders lines.
type FlowScript struct {
	lines []string
}

// Append adds one command line to the end of the script.
func (s *FlowScript) Append(line string) {
	s.lines = append(s.lines, line)
}

// Lines returns a copy of the script's command lines in order.
func (s *FlowScript) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of command lines in the script.
func (s *FlowScript) Len() int {
	return len(s.lines)
}

// Text renders the script as newline-terminated text, one command per
// line. Rendering the same script twice yields byte-identical output.
func (s *FlowScript) Text() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}
