package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runScriptCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"script"}, args...))
	err := root.Execute()
	return out.String(), err
}

// TestScriptCommandComposesToStdout verifies the printed script for a
// part-based invocation.
func TestScriptCommandComposesToStdout(t *testing.T) {
	out, err := runScriptCommand(t,
		"top.v", "sub.vhd",
		"--top", "adder32",
		"--part", "xc7a200tfbg484-2",
		"--constraints", "doit.xdc",
	)
	if err != nil {
		t.Fatalf("script command error = %v", err)
	}

	want := "read_verilog top.v\n" +
		"read_vhdl sub.vhd\n" +
		"read_xdc doit.xdc\n" +
		"synth_design -part xc7a200tfbg484-2 -top adder32 -mode out_of_context\n" +
		"write_checkpoint -force adder32_after_synth.dcp\n" +
		"report_timing\n" +
		"report_utilization\n"
	if out != want {
		t.Errorf("script output = %q, want %q", out, want)
	}
}

// TestScriptCommandDeviceLookup verifies --device resolves a part from
// the built-in catalog.
func TestScriptCommandDeviceLookup(t *testing.T) {
	out, err := runScriptCommand(t,
		"top.v",
		"--top", "adder32",
		"--device", "artix7-200",
	)
	if err != nil {
		t.Fatalf("script command error = %v", err)
	}
	if !strings.Contains(out, "synth_design -part xc7a200tfbg484-2 -top adder32 -mode out_of_context") {
		t.Errorf("script output = %q", out)
	}
}

// TestScriptCommandOutputFile verifies -o writes the script to a file.
func TestScriptCommandOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "doit.tcl")
	_, err := runScriptCommand(t,
		"top.v",
		"--top", "adder32",
		"--part", "xc7a200tfbg484-2",
		"-o", outPath,
	)
	if err != nil {
		t.Fatalf("script command error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "read_verilog top.v\n") {
		t.Errorf("script file = %q", data)
	}
}

// TestScriptCommandBitstreamFails verifies the unimplemented task kind
// is a command error and writes nothing.
func TestScriptCommandBitstreamFails(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "doit.tcl")
	_, err := runScriptCommand(t,
		"top.v",
		"--top", "adder32",
		"--part", "xc7a200tfbg484-2",
		"--task", "bitstream",
		"-o", outPath,
	)
	if err == nil {
		t.Fatal("expected error for bitstream task")
	}
	if _, statErr := os.Stat(outPath); statErr == nil {
		t.Error("script file written despite composition failure")
	}
}

// TestScriptCommandUnknownSuffix verifies classification failures
// surface as command errors.
func TestScriptCommandUnknownSuffix(t *testing.T) {
	_, err := runScriptCommand(t,
		"top.pdf",
		"--top", "adder32",
		"--part", "xc7a200tfbg484-2",
	)
	if err == nil || !strings.Contains(err.Error(), "unrecognized source format") {
		t.Errorf("error = %v, want unrecognized source format", err)
	}
}

// TestScriptCommandRequiresTopAndPart verifies flag validation.
func TestScriptCommandRequiresTopAndPart(t *testing.T) {
	if _, err := runScriptCommand(t, "top.v", "--part", "xyz"); err == nil {
		t.Error("expected error without --top")
	}
	if _, err := runScriptCommand(t, "top.v", "--top", "adder32"); err == nil {
		t.Error("expected error without --device or --part")
	}
}
