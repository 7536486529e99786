package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stratus-hq/federation/pkg/federation/audit"
)

var auditFlags struct {
	limit  int
	format string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the policy resolution audit log",
	Long: `Inspect the policy resolution audit log.

Every policy load records which queue was asked for, which fallback tier
answered, and whether the load succeeded.

Examples:
  # Show the 20 most recent policy loads
  stratus audit recent --limit 20

  # Output as JSON
  stratus audit recent --format json`,
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent policy loads",
	RunE:  showRecentLoads,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditRecentCmd)

	auditRecentCmd.Flags().IntVarP(&auditFlags.limit, "limit", "n", 20, "maximum number of records")
	auditRecentCmd.Flags().StringVarP(&auditFlags.format, "format", "f", "text", "output format (text, json)")
}

func showRecentLoads(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	recorder, err := audit.NewRecorder(audit.Config{Path: cfg.Audit.SQLitePath})
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer recorder.Close()

	records, err := recorder.Recent(auditFlags.limit)
	if err != nil {
		return err
	}

	if auditFlags.format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No policy loads recorded.")
		return nil
	}
	for _, rec := range records {
		line := fmt.Sprintf("%s  %-20s -> %-20s %-25s tier=%s outcome=%s",
			rec.CreatedAt.Format(time.RFC3339), rec.RequestedQueue, rec.ResolvedQueue,
			rec.ManagerType, rec.Tier, rec.Outcome)
		if rec.Error != "" {
			line += " error=" + rec.Error
		}
		fmt.Println(line)
	}
	return nil
}
