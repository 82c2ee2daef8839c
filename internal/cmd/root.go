package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for synthflow
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synthflow",
		Short: "FPGA synthesis flow orchestrator",
		Long: `Synthflow drives an external EDA tool through one synthesis or
synthesis+implementation run: it generates the batch TCL script from
your design sources, selects the active constraints file, invokes the
tool, and parses its log into a structured report.

Sources come either from an external design-to-source generator (fed a
design descriptor) or from a pre-built netlist file.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewScriptCommand())
	cmd.AddCommand(NewDevicesCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
