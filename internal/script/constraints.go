package script

import (
	"errors"
	"strconv"
)

// FallbackClockPort is the port name the generated fallback constraint
// binds its clock to.
const FallbackClockPort = "clk"

// ErrNoConstraints reports that no candidate constraints file exists.
// The flow driver materializes the fallback file before resolving, so
// hitting this during a normal run means the workspace was tampered with.
var ErrNoConstraints = errors.New("no constraints candidate exists")

// FallbackConstraint returns the single-line constraints text declaring
// a target clock period in nanoseconds on the fallback clock port.
// The period is rendered in the shortest form that round-trips the
// float exactly; truncating it would silently change timing closure.
func FallbackConstraint(periodNs float64) string {
	return "create_clock -period " + strconv.FormatFloat(periodNs, 'f', -1, 64) +
		" [get_ports " + FallbackClockPort + "]\n"
}

// ResolveConstraints returns the first candidate for which exists
// reports true, scanning strictly left to right. Empty candidate
// entries are skipped so callers can pass optional slots positionally.
// The existence predicate is injected so the policy is testable
// without touching a filesystem.
func ResolveConstraints(candidates []string, exists func(string) bool) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if exists(c) {
			return c, nil
		}
	}
	return "", ErrNoConstraints
}
