package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stratus-hq/federation/pkg/federation/audit"
	"stratus-hq/federation/pkg/federation/policies"
	_ "stratus-hq/federation/pkg/federation/policies/manager"
	"stratus-hq/federation/pkg/federation/subcluster"
)

var resolveFlags struct {
	format string
	load   bool
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [queue]",
	Short: "Resolve the policy configuration governing a queue",
	Long: `Resolve the policy configuration governing a queue.

Resolution consults the state store for the queue, falls back to the
store's default queue entry, and finally to the local configuration, so it
always produces a configuration. The output reports which fallback tier
answered.

Examples:
  # Resolve a queue
  stratus resolve root.analytics

  # Resolve and instantiate the governing policy
  stratus resolve root.analytics --load

  # Output as JSON
  stratus resolve root.analytics --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: resolveQueue,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFlags.format, "format", "f", "text", "output format (text, json)")
	resolveCmd.Flags().BoolVar(&resolveFlags.load, "load", false, "also instantiate the governing policy")
}

// captureObserver records the last resolution so the command can report
// the fallback tier and store counters.
type captureObserver struct {
	last *policies.ResolutionEvent
}

func (o *captureObserver) ObserveResolution(event policies.ResolutionEvent) {
	o.last = &event
}

func (o *captureObserver) ObserveLoad(event policies.LoadEvent) {}

func resolveQueue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var queue string
	if len(args) > 0 {
		queue = args[0]
	}

	f, _, cleanup, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Audit.Enabled {
		recorder, err := audit.NewRecorder(audit.Config{Path: cfg.Audit.SQLitePath})
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		defer recorder.Close()
		policies.RegisterObserver(recorder)
	}

	capture := &captureObserver{}
	policies.RegisterObserver(capture)

	var policyType string
	var configuration *policies.PolicyConfiguration
	if resolveFlags.load {
		home := subcluster.ID(cfg.Federation.HomeSubCluster)
		policy, err := policies.LoadAMRMPolicy(queue, nil, cfg, f, home)
		if err != nil {
			return err
		}
		policyType = fmt.Sprintf("%T", policy)
	}
	configuration, err = policies.LoadPolicyConfiguration(queue, cfg, f)
	if err != nil {
		return err
	}

	if resolveFlags.format == "json" {
		out := struct {
			RequestedQueue string `json:"requested_queue"`
			ResolvedQueue  string `json:"resolved_queue"`
			ManagerType    string `json:"manager_type"`
			Params         string `json:"params,omitempty"`
			Tier           string `json:"tier"`
			StoreMisses    int    `json:"store_misses"`
			StoreFailures  int    `json:"store_failures"`
			PolicyType     string `json:"policy_type,omitempty"`
		}{
			RequestedQueue: queue,
			ResolvedQueue:  configuration.Queue(),
			ManagerType:    configuration.ManagerType(),
			Params:         string(configuration.Params()),
			PolicyType:     policyType,
		}
		if capture.last != nil {
			out.Tier = capture.last.Tier.String()
			out.StoreMisses = capture.last.StoreMisses
			out.StoreFailures = capture.last.StoreFailures
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Printf("Queue:        %s\n", configuration.Queue())
	fmt.Printf("Manager Type: %s\n", configuration.ManagerType())
	if params := configuration.Params(); len(params) > 0 {
		fmt.Printf("Params:       %s\n", params)
	}
	if capture.last != nil {
		fmt.Printf("Tier:         %s\n", capture.last.Tier)
		if capture.last.StoreMisses > 0 || capture.last.StoreFailures > 0 {
			fmt.Printf("Store:        %d misses, %d failures\n", capture.last.StoreMisses, capture.last.StoreFailures)
		}
	}
	if policyType != "" {
		fmt.Printf("Policy:       %s\n", policyType)
	}
	return nil
}
