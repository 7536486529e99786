package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stratus-hq/federation/pkg/federation/subcluster"
)

var subclustersFlags struct {
	format     string
	activeOnly bool
	id         string
	rmAddress  string
	capability string
	state      string
}

var subclustersCmd = &cobra.Command{
	Use:   "subclusters",
	Short: "Manage sub-cluster membership",
	Long: `Manage sub-cluster membership in the state store.

Subcommands:
  list       - List registered sub-clusters
  register   - Register a sub-cluster
  heartbeat  - Record a sub-cluster heartbeat
  deregister - Remove a sub-cluster

Examples:
  # List active sub-clusters
  stratus subclusters list --active

  # Register a sub-cluster
  stratus subclusters register --id sc-east --rm-address rm.east:8032

  # Record a heartbeat
  stratus subclusters heartbeat --id sc-east --state running`,
}

var subclustersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sub-clusters",
	RunE:  listSubClusters,
}

var subclustersRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a sub-cluster",
	RunE:  registerSubCluster,
}

var subclustersHeartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Record a sub-cluster heartbeat",
	RunE:  heartbeatSubCluster,
}

var subclustersDeregisterCmd = &cobra.Command{
	Use:   "deregister",
	Short: "Remove a sub-cluster",
	RunE:  deregisterSubCluster,
}

func init() {
	rootCmd.AddCommand(subclustersCmd)
	subclustersCmd.AddCommand(subclustersListCmd)
	subclustersCmd.AddCommand(subclustersRegisterCmd)
	subclustersCmd.AddCommand(subclustersHeartbeatCmd)
	subclustersCmd.AddCommand(subclustersDeregisterCmd)

	subclustersListCmd.Flags().StringVarP(&subclustersFlags.format, "format", "f", "text", "output format (text, json)")
	subclustersListCmd.Flags().BoolVar(&subclustersFlags.activeOnly, "active", false, "only show active sub-clusters")

	subclustersRegisterCmd.Flags().StringVar(&subclustersFlags.id, "id", "", "sub-cluster identifier (required)")
	subclustersRegisterCmd.Flags().StringVar(&subclustersFlags.rmAddress, "rm-address", "", "resource manager address")
	subclustersRegisterCmd.Flags().StringVar(&subclustersFlags.capability, "capability", "", "capability description")
	subclustersRegisterCmd.MarkFlagRequired("id")

	subclustersHeartbeatCmd.Flags().StringVar(&subclustersFlags.id, "id", "", "sub-cluster identifier (required)")
	subclustersHeartbeatCmd.Flags().StringVar(&subclustersFlags.state, "state", "running", "sub-cluster state")
	subclustersHeartbeatCmd.MarkFlagRequired("id")

	subclustersDeregisterCmd.Flags().StringVar(&subclustersFlags.id, "id", "", "sub-cluster identifier (required)")
	subclustersDeregisterCmd.MarkFlagRequired("id")
}

func listSubClusters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, _, cleanup, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var infos []subcluster.Info
	if subclustersFlags.activeOnly {
		infos, err = f.ActiveSubClusters(ctx)
	} else {
		infos, err = f.SubClusters(ctx)
	}
	if err != nil {
		return err
	}

	if subclustersFlags.format == "json" {
		type infoJSON struct {
			ID            string    `json:"id"`
			State         string    `json:"state"`
			RMAddress     string    `json:"rm_address,omitempty"`
			Capability    string    `json:"capability,omitempty"`
			LastHeartbeat time.Time `json:"last_heartbeat"`
		}
		out := make([]infoJSON, 0, len(infos))
		for _, info := range infos {
			out = append(out, infoJSON{
				ID:            info.ID.String(),
				State:         info.State.String(),
				RMAddress:     info.RMAddress,
				Capability:    info.Capability,
				LastHeartbeat: info.LastHeartbeat,
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	if len(infos) == 0 {
		fmt.Println("No sub-clusters registered.")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%-20s %-12s %-25s %s\n", info.ID, info.State, info.RMAddress, info.LastHeartbeat.Format(time.RFC3339))
	}
	return nil
}

func registerSubCluster(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, st, cleanup, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info := subcluster.Info{
		ID:            subcluster.ID(subclustersFlags.id),
		State:         subcluster.StateNew,
		RMAddress:     subclustersFlags.rmAddress,
		Capability:    subclustersFlags.capability,
		LastHeartbeat: time.Now(),
	}
	if err := st.RegisterSubCluster(ctx, info); err != nil {
		return err
	}

	fmt.Printf("Registered sub-cluster %q\n", subclustersFlags.id)
	return nil
}

func heartbeatSubCluster(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	state := subcluster.ParseState(subclustersFlags.state)

	_, st, cleanup, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Heartbeat(ctx, subcluster.ID(subclustersFlags.id), state); err != nil {
		return err
	}

	fmt.Printf("Recorded %s heartbeat for sub-cluster %q\n", state, subclustersFlags.id)
	return nil
}

func deregisterSubCluster(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, st, cleanup, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.DeregisterSubCluster(ctx, subcluster.ID(subclustersFlags.id)); err != nil {
		return err
	}

	fmt.Printf("Deregistered sub-cluster %q\n", subclustersFlags.id)
	return nil
}
