package script

import (
	"errors"
	"testing"
)

// existsIn builds an existence predicate from a fixed set of paths,
// keeping resolution tests free of filesystem side effects.
func existsIn(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

// TestResolveConstraintsFirstPresentWins verifies strict left-to-right
// priority independent of later candidates' existence.
func TestResolveConstraintsFirstPresentWins(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		existing   []string
		want       string
	}{
		{
			name:       "user file wins over all",
			candidates: []string{"user.xdc", "device.xdc", "doit.xdc"},
			existing:   []string{"user.xdc", "device.xdc", "doit.xdc"},
			want:       "user.xdc",
		},
		{
			name:       "device default when user file missing",
			candidates: []string{"user.xdc", "device.xdc", "doit.xdc"},
			existing:   []string{"device.xdc", "doit.xdc"},
			want:       "device.xdc",
		},
		{
			name:       "fallback when only it exists",
			candidates: []string{"user.xdc", "device.xdc", "doit.xdc"},
			existing:   []string{"doit.xdc"},
			want:       "doit.xdc",
		},
		{
			name:       "empty slots are skipped",
			candidates: []string{"", "", "doit.xdc"},
			existing:   []string{"doit.xdc"},
			want:       "doit.xdc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveConstraints(tt.candidates, existsIn(tt.existing...))
			if err != nil {
				t.Fatalf("ResolveConstraints() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveConstraints() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestResolveConstraintsNone verifies the sentinel error when no
// candidate exists.
func TestResolveConstraintsNone(t *testing.T) {
	_, err := ResolveConstraints([]string{"a.xdc", "b.xdc"}, existsIn())
	if !errors.Is(err, ErrNoConstraints) {
		t.Errorf("error = %v, want ErrNoConstraints", err)
	}
}

// TestFallbackConstraintContent checks the generated single-line
// constraint, including full-precision period rendering.
func TestFallbackConstraintContent(t *testing.T) {
	tests := []struct {
		periodNs float64
		want     string
	}{
		{1.538, "create_clock -period 1.538 [get_ports clk]\n"},
		{10, "create_clock -period 10 [get_ports clk]\n"},
		{3.3333333333333335, "create_clock -period 3.3333333333333335 [get_ports clk]\n"},
	}
	for _, tt := range tests {
		if got := FallbackConstraint(tt.periodNs); got != tt.want {
			t.Errorf("FallbackConstraint(%v) = %q, want %q", tt.periodNs, got, tt.want)
		}
	}
}

// TestFallbackConstraintIdempotent verifies repeated derivation for the
// same device figure yields identical text.
func TestFallbackConstraintIdempotent(t *testing.T) {
	a := FallbackConstraint(1.538)
	b := FallbackConstraint(1.538)
	if a != b {
		t.Errorf("FallbackConstraint not idempotent: %q vs %q", a, b)
	}
}
