package cmd

import (
	"bytes"
	"testing"
)

// TestRootCommandStructure verifies the expected subcommands exist.
func TestRootCommandStructure(t *testing.T) {
	root := NewRootCommand()

	if root.Use != "synthflow" {
		t.Errorf("Use = %q", root.Use)
	}

	want := map[string]bool{"run": false, "script": false, "devices": false, "history": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q missing", name)
		}
	}
}

// TestRootCommandHelp verifies help executes cleanly.
func TestRootCommandHelp(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected help output")
	}
}
