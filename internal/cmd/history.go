package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/synthflow/internal/config"
	"github.com/harrison/synthflow/internal/history"
	"github.com/harrison/synthflow/internal/models"
	"github.com/harrison/synthflow/internal/report"
)

// NewHistoryCommand creates the history command with its subcommands
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded flow runs",
		Long: `Query the flow run history database. Every completed run records
its task kind, device part, timing slack, and utilization figures, so
regressions across runs of the same module are easy to spot.`,
	}

	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func openHistoryStore(cmd *cobra.Command) (*history.Store, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History.DBPath)
}

func newHistoryShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recorded flow runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  historyShowCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .synthflow/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
	cmd.Flags().String("module", "", "Only show runs of this top module")
	cmd.Flags().String("html", "", "Write the selected runs as HTML to this file")

	return cmd
}

// historyShowCommand implements the history show logic
func historyShowCommand(cmd *cobra.Command, _ []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	module, _ := cmd.Flags().GetString("module")
	limit, _ := cmd.Flags().GetInt("limit")

	var records []models.RunRecord
	if module != "" {
		records, err = store.ForModule(module)
	} else {
		records, err = store.Recent(limit)
	}
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No flow runs recorded.")
		return nil
	}

	if htmlPath, _ := cmd.Flags().GetString("html"); htmlPath != "" {
		html, err := report.RenderMarkdown(historyMarkdown(records))
		if err != nil {
			return err
		}
		if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
			return fmt.Errorf("failed to write HTML history: %w", err)
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tMODULE\tPART\tTASK\tSTATUS\tSLACK (NS)\tLUTS\tREGS\tDURATION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.3f\t%d\t%d\t%s\n",
			rec.StartedAt.Local().Format("2006-01-02 15:04"),
			rec.TopModule, rec.Part, rec.Task, rec.Status,
			rec.SlackNs, rec.LUTs, rec.Registers,
			rec.Duration.Round(time.Second))
	}
	return w.Flush()
}

// historyMarkdown renders the records as a GFM table, matching the
// column order of the console listing.
func historyMarkdown(records []models.RunRecord) string {
	var b strings.Builder
	b.WriteString("# Flow Run History\n\n")
	b.WriteString("| Started | Module | Part | Task | Status | Slack (ns) | LUTs | Regs | Duration |\n")
	b.WriteString("|---------|--------|------|------|--------|-----------:|-----:|-----:|----------|\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.3f | %d | %d | %s |\n",
			rec.StartedAt.Local().Format("2006-01-02 15:04"),
			rec.TopModule, rec.Part, rec.Task, rec.Status,
			rec.SlackNs, rec.LUTs, rec.Registers,
			rec.Duration.Round(time.Second))
	}
	return b.String()
}

func newHistoryClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded flow runs",
		Args:  cobra.NoArgs,
		RunE:  historyClearCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .synthflow/config.yaml)")

	return cmd
}

// historyClearCommand implements the history clear logic
func historyClearCommand(cmd *cobra.Command, _ []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Clear()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d flow run(s).\n", n)
	return nil
}
