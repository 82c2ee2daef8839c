package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/synthflow/internal/config"
	"github.com/harrison/synthflow/internal/device"
)

// NewDevicesCommand creates the devices command
func NewDevicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the known target devices",
		Long: `List every device in the catalog: the built-in parts plus any
entries from the device overlay file configured via device_overlay.`,
		Args: cobra.NoArgs,
		RunE: devicesCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .synthflow/config.yaml)")

	return cmd
}

// devicesCommand implements the devices command logic
func devicesCommand(cmd *cobra.Command, _ []string) error {
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

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPART\tFAMILY\tFMAX (MHZ)\tPERIOD (NS)")
	for _, d := range catalog.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.3f\n",
			d.Name, d.Part, d.Family, d.FmaxMHz, d.ClockPeriodNs())
	}
	return w.Flush()
}
