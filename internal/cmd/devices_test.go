package cmd

import (
	"bytes"
	"strings"
	"testing"
)

// TestDevicesCommandListsCatalog verifies the built-in devices render.
func TestDevicesCommandListsCatalog(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"devices"})

	if err := root.Execute(); err != nil {
		t.Fatalf("devices command error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"NAME", "artix7-200", "xc7a200tfbg484-2", "zynqmp-3eg"} {
		if !strings.Contains(text, want) {
			t.Errorf("devices output missing %q:\n%s", want, text)
		}
	}
}
