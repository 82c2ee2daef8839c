package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFakeTool writes a shell script standing in for the tool binary
// that prints a passing log to stdout.
func writeFakeTool(t *testing.T, dir string) string {
	t.Helper()
	tool := filepath.Join(dir, "fake-vivado")
	script := `#!/bin/sh
echo 'Slack (MET) :              0.123ns  (required time - arrival time)'
echo '| Slice LUTs                 |  399 |     0 |    133800 |  0.30 |'
echo '| Slice Registers            |  128 |     0 |    267600 |  0.05 |'
`
	if err := os.WriteFile(tool, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return tool
}

// TestRunCommandNetlistEndToEnd drives the run command with a fake
// tool binary and a pre-built netlist, checking the workspace
// artifacts and the printed report.
func TestRunCommandNetlistEndToEnd(t *testing.T) {
	tmp := t.TempDir()
	tool := writeFakeTool(t, tmp)

	netlist := filepath.Join(tmp, "adder32.v")
	if err := os.WriteFile(netlist, []byte("module adder32; endmodule\n"), 0644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(tmp, "config.yaml")
	configContent := "vivado_path: " + tool + "\n" +
		"log_dir: " + filepath.Join(tmp, "logs") + "\n" +
		"history:\n  enabled: true\n  db_path: " + filepath.Join(tmp, "history.db") + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	workspace := filepath.Join(tmp, "work")
	htmlPath := filepath.Join(tmp, "report.html")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{
		"run",
		"--config", configPath,
		"--netlist", netlist,
		"--top", "adder32",
		"--part", "xc7a200tfbg484-2",
		"--period-ns", "1.538",
		"--family", "artix7",
		"--workspace", workspace,
		"--html", htmlPath,
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("run command error = %v\noutput:\n%s", err, out.String())
	}

	// Workspace artifacts.
	scriptText, err := os.ReadFile(filepath.Join(workspace, "doit.tcl"))
	if err != nil {
		t.Fatalf("doit.tcl missing: %v", err)
	}
	if !strings.HasPrefix(string(scriptText), "read_verilog adder32.v\n") {
		t.Errorf("script = %q", scriptText)
	}
	xdc, err := os.ReadFile(filepath.Join(workspace, "doit.xdc"))
	if err != nil {
		t.Fatalf("doit.xdc missing: %v", err)
	}
	if string(xdc) != "create_clock -period 1.538 [get_ports clk]\n" {
		t.Errorf("constraints = %q", xdc)
	}
	if _, err := os.Stat(filepath.Join(workspace, "doit.log")); err != nil {
		t.Errorf("doit.log missing: %v", err)
	}

	// Printed report.
	if !strings.Contains(out.String(), "# Flow report") {
		t.Errorf("report summary missing from output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "| LUTs | 399 |") {
		t.Errorf("utilization missing from output:\n%s", out.String())
	}

	// HTML export.
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("HTML report missing: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Errorf("HTML report = %q", html)
	}

	// History database created.
	if _, err := os.Stat(filepath.Join(tmp, "history.db")); err != nil {
		t.Errorf("history database missing: %v", err)
	}
}

// TestRunCommandFailedFlowExitsNonZero verifies a run whose log parses
// to a failed report returns a command error.
func TestRunCommandFailedFlowExitsNonZero(t *testing.T) {
	tmp := t.TempDir()

	tool := filepath.Join(tmp, "fake-vivado")
	script := "#!/bin/sh\necho 'ERROR: [Synth 8-439] module not found'\nexit 1\n"
	if err := os.WriteFile(tool, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	netlist := filepath.Join(tmp, "adder32.v")
	if err := os.WriteFile(netlist, []byte("module adder32; endmodule\n"), 0644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(tmp, "config.yaml")
	configContent := "vivado_path: " + tool + "\n" +
		"log_dir: " + filepath.Join(tmp, "logs") + "\n" +
		"history:\n  enabled: false\n  db_path: " + filepath.Join(tmp, "unused.db") + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{
		"run",
		"--config", configPath,
		"--netlist", netlist,
		"--top", "adder32",
		"--part", "xc7a200tfbg484-2",
		"--period-ns", "1.538",
		"--workspace", filepath.Join(tmp, "work"),
	})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected error for failed flow")
	}
	if !strings.Contains(err.Error(), "flow failed") {
		t.Errorf("error = %v", err)
	}
}

// TestRunCommandFlagValidation covers mutually exclusive and missing
// flag combinations.
func TestRunCommandFlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"device and part together", []string{
			"run", "design.yaml", "--top", "t", "--device", "artix7-200", "--part", "x",
		}},
		{"device and period together", []string{
			"run", "design.yaml", "--top", "t", "--device", "artix7-200", "--period-ns", "2",
		}},
		{"device and family together", []string{
			"run", "design.yaml", "--top", "t", "--device", "artix7-200", "--family", "artix7",
		}},
		{"part without period", []string{
			"run", "design.yaml", "--top", "t", "--part", "x",
		}},
		{"no device or part", []string{
			"run", "design.yaml", "--top", "t",
		}},
		{"unknown task", []string{
			"run", "design.yaml", "--top", "t", "--part", "x", "--period-ns", "2", "--task", "route-only",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs(tt.args)
			if err := root.Execute(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
