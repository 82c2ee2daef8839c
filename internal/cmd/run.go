package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/synthflow/internal/config"
	"github.com/harrison/synthflow/internal/device"
	"github.com/harrison/synthflow/internal/flow"
	"github.com/harrison/synthflow/internal/history"
	"github.com/harrison/synthflow/internal/logger"
	"github.com/harrison/synthflow/internal/models"
	"github.com/harrison/synthflow/internal/vivado"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [design-descriptor]",
		Short: "Execute one synthesis flow end to end",
		Long: `Execute one flow: prepare the workspace, obtain design sources,
write the constraints and script files, invoke the tool, and parse its
log into a report.

Sources come from the configured generator run against the design
descriptor, or from a pre-built netlist given with --netlist (exactly
one of the two).

The tool's exit status is never gated on; inspect the printed report
(and the process exit code, which reflects the report) for real
success.

Configuration is loaded from .synthflow/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  synthflow run design.yaml --top adder32 --device artix7-200
  synthflow run design.yaml --top fifo --device zynqmp-3eg --task implement
  synthflow run --netlist build/adder32.v --top adder32 --device artix7-200
  synthflow run design.yaml --top adder32 --part xc7a200tfbg484-2 --period-ns 1.538
  synthflow run design.yaml --top adder32 --device artix7-200 --constraints pins.xdc
  synthflow run design.yaml --top adder32 --device artix7-200 --html report.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .synthflow/config.yaml)")
	cmd.Flags().String("top", "", "Top-level module name (required)")
	cmd.Flags().String("device", "", "Target device catalog name (see 'synthflow devices')")
	cmd.Flags().String("part", "", "Target part identifier (alternative to --device)")
	cmd.Flags().Float64("period-ns", 0, "Fallback clock period in ns (required with --part)")
	cmd.Flags().String("family", "", "Device family tag for log parsing (with --part)")
	cmd.Flags().String("task", "synthesize", "Task kind: synthesize, implement or bitstream")
	cmd.Flags().String("netlist", "", "Pre-built netlist file used as the sole source")
	cmd.Flags().String("constraints", "", "User-supplied constraints file (highest priority)")
	cmd.Flags().String("workspace", "", "Workspace directory (default: .synthflow/work/<top>)")
	cmd.Flags().String("timeout", "", "Maximum tool run time (e.g., 30m, 2h)")
	cmd.Flags().String("log-level", "", "Log verbosity: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	cmd.Flags().String("html", "", "Write the report summary as HTML to this file")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	return cmd
}

// buildFlowRequest assembles a FlowRequest from flags, the device
// catalog, and an optional positional descriptor argument.
func buildFlowRequest(cmd *cobra.Command, args []string, cfg *config.Config) (models.FlowRequest, error) {
	var req models.FlowRequest
	if len(args) > 0 {
		req.Descriptor = args[0]
	}

	req.TopModule, _ = cmd.Flags().GetString("top")
	req.Netlist, _ = cmd.Flags().GetString("netlist")
	req.Constraints, _ = cmd.Flags().GetString("constraints")

	taskStr, _ := cmd.Flags().GetString("task")
	task, err := models.ParseTaskKind(taskStr)
	if err != nil {
		return req, err
	}
	req.Task = task

	deviceName, _ := cmd.Flags().GetString("device")
	partFlag, _ := cmd.Flags().GetString("part")
	if deviceName != "" && partFlag != "" {
		return req, fmt.Errorf("cannot use both --device and --part")
	}

	switch {
	case deviceName != "":
		if cmd.Flags().Changed("period-ns") {
			return req, fmt.Errorf("cannot use both --device and --period-ns")
		}
		if cmd.Flags().Changed("family") {
			return req, fmt.Errorf("cannot use both --device and --family")
		}
		catalog, err := device.LoadCatalog(cfg.DeviceOverlay)
		if err != nil {
			return req, err
		}
		dev, err := catalog.Lookup(deviceName)
		if err != nil {
			return req, err
		}
		req.Device = dev.Name
		req.Part = dev.Part
		req.Family = dev.Family
		req.ClockPeriodNs = dev.ClockPeriodNs()
		req.DeviceConstraints = dev.Constraints
	case partFlag != "":
		period, _ := cmd.Flags().GetFloat64("period-ns")
		if period <= 0 {
			return req, fmt.Errorf("--part requires --period-ns")
		}
		req.Part = partFlag
		req.ClockPeriodNs = period
		req.Family, _ = cmd.Flags().GetString("family")
	default:
		return req, fmt.Errorf("either --device or --part is required")
	}

	req.Workspace, _ = cmd.Flags().GetString("workspace")
	if req.Workspace == "" {
		if req.TopModule == "" {
			return req, fmt.Errorf("--top is required")
		}
		req.Workspace = filepath.Join(".synthflow", "work", req.TopModule)
	}

	return req, nil
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// CLI flags override config values.
	if cmd.Flags().Changed("timeout") {
		timeoutStr, _ := cmd.Flags().GetString("timeout")
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid timeout format %q: %w", timeoutStr, err)
		}
		cfg.Timeout = timeout
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-dir") {
		cfg.LogDir, _ = cmd.Flags().GetString("log-dir")
	}

	req, err := buildFlowRequest(cmd, args, cfg)
	if err != nil {
		return err
	}

	console := logger.NewConsoleLogger(os.Stdout, cfg.LogLevel)

	fileLog, err := logger.NewFileLogger(cfg.LogDir)
	if err != nil {
		return err
	}
	defer fileLog.Close()
	fileLog.Log("flow start: top=%s part=%s task=%s workspace=%s",
		req.TopModule, req.Part, req.Task, req.Workspace)

	var store *history.Store
	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		store, err = history.NewStore(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	driver := &flow.Driver{
		Generator: &flow.ExecGenerator{GeneratorPath: cfg.GeneratorPath},
		Runner: &vivado.Invoker{
			VivadoPath: cfg.VivadoPath,
			Timeout:    cfg.Timeout,
		},
		Logger:  console,
		History: store,
	}

	result, err := driver.Run(cmd.Context(), req)
	if err != nil {
		fileLog.Log("flow error: %v", err)
		return err
	}

	fileLog.Log("flow done: status=%s exit=%d slack=%.3fns luts=%d",
		result.Record.Status, result.Record.ToolExit, result.Record.SlackNs, result.Record.LUTs)

	console.LogSummary(result.Report.Succeeded(),
		result.Report.ConsoleSummary(result.Record.Duration))
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), result.Report.Summary())

	if htmlPath, _ := cmd.Flags().GetString("html"); htmlPath != "" {
		html, err := result.Report.RenderHTML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
	}

	// The driver never gates on the tool's exit status, so surface
	// report-level failure through the process exit code here.
	if !result.Report.Succeeded() {
		return fmt.Errorf("flow failed: see report above and %s", fileLog.Path())
	}
	return nil
}
