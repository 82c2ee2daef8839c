package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/synthflow/internal/config"
	"github.com/harrison/synthflow/internal/device"
	"github.com/harrison/synthflow/internal/models"
	"github.com/harrison/synthflow/internal/script"
)

// NewScriptCommand creates the script command
func NewScriptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <source-file>...",
		Short: "Compose a flow script without running the tool",
		Long: `Compose the ordered TCL command script for the given sources and
task kind and print it, without touching a workspace or invoking the
tool. Useful for inspecting what a run would execute and for wiring
synthflow into external build systems.

Source files are classified by suffix (.v, .sv, .vhd, .vhdl, .bin);
an unrecognized suffix is a fatal error.

Examples:
  synthflow script top.v sub.vhd --top adder32 --device artix7-200
  synthflow script rtl/*.sv --top fifo --part xc7a200tfbg484-2 --task implement
  synthflow script top.v --top adder32 --device artix7-200 -o doit.tcl`,
		Args: cobra.MinimumNArgs(1),
		RunE: scriptCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .synthflow/config.yaml)")
	cmd.Flags().String("top", "", "Top-level module name (required)")
	cmd.Flags().String("device", "", "Target device catalog name")
	cmd.Flags().String("part", "", "Target part identifier (alternative to --device)")
	cmd.Flags().String("task", "synthesize", "Task kind: synthesize, implement or bitstream")
	cmd.Flags().String("constraints", "doit.xdc", "Constraints file path to reference in the script")
	cmd.Flags().StringP("output", "o", "", "Write the script to a file instead of stdout")

	return cmd
}

// scriptCommand implements the script command logic
func scriptCommand(cmd *cobra.Command, args []string) error {
	topModule, _ := cmd.Flags().GetString("top")
	if topModule == "" {
		return fmt.Errorf("--top is required")
	}

	taskStr, _ := cmd.Flags().GetString("task")
	task, err := models.ParseTaskKind(taskStr)
	if err != nil {
		return err
	}

	part, _ := cmd.Flags().GetString("part")
	deviceName, _ := cmd.Flags().GetString("device")
	if part == "" && deviceName == "" {
		return fmt.Errorf("either --device or --part is required")
	}
	if part == "" {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.DefaultConfigPath
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		catalog, err := device.LoadCatalog(cfg.DeviceOverlay)
		if err != nil {
			return err
		}
		dev, err := catalog.Lookup(deviceName)
		if err != nil {
			return err
		}
		part = dev.Part
	}

	constraintsFile, _ := cmd.Flags().GetString("constraints")

	flowScript, err := script.Compose(args, constraintsFile, task, topModule, part)
	if err != nil {
		return err
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		return os.WriteFile(outPath, []byte(flowScript.Text()), 0644)
	}
	fmt.Fprint(cmd.OutOrStdout(), flowScript.Text())
	return nil
}
