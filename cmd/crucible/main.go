package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tanglewood-labs/crucible/framework/local"
	"github.com/tanglewood-labs/crucible/framework/testutil/random"
	"go.uber.org/zap"
)

var (
	topologyPath string
	tailNode     string
)

var rootCmd = &cobra.Command{
	Use:     "crucible",
	Short:   "local test-cluster launcher for the ledger network",
	Version: "0.1.0",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "clean the workspace, launch the cluster and follow its logs",
	RunE:  runUp,
}

func init() {
	upCmd.Flags().StringVarP(&topologyPath, "topology", "t", "", "topology file (defaults to the stock development topology)")
	upCmd.Flags().StringVar(&tailNode, "tail", "", "node whose log to follow, e.g. storage-0 (defaults to the first storage node)")
	rootCmd.AddCommand(upCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runUp(cmd *cobra.Command, _ []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run", random.LowerCaseLetterString(8)))

	topology := local.DefaultTopology()
	if topologyPath != "" {
		topology, err = local.LoadTopology(topologyPath)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stale state from a previous run corrupts the new one, so a failed
	// cleanup aborts before anything spawns.
	cleaner := local.NewCleaner(logger, local.ArtifactPatterns(topology)...)
	if err := cleaner.Clean(ctx); err != nil {
		return fmt.Errorf("workspace cleanup failed: %w", err)
	}

	cluster, err := local.NewClusterBuilder().
		WithLogger(logger).
		WithTopology(topology).
		Build()
	if err != nil {
		return err
	}

	if err := cluster.Start(ctx); err != nil {
		// Partial startup is reported, not fatal: the operator decides
		// whether to interrupt or let the cluster run degraded.
		logger.Warn("cluster started partially", zap.Error(err))
	}

	coordinator := local.NewCoordinator(logger, cluster.Registry())
	coordinator.Arm(ctx)

	var target string
	var ok bool
	if tailNode != "" {
		if target, ok = cluster.LogFile(tailNode); !ok {
			return fmt.Errorf("unknown node %q", tailNode)
		}
	} else if target, ok = cluster.DefaultLogTarget(); !ok {
		return fmt.Errorf("no nodes to follow")
	}

	monitor := local.NewMonitor(logger, target, os.Stdout)
	if err := monitor.Run(ctx); err != nil {
		logger.Warn("log monitor stopped", zap.Error(err))
	}

	killed, err := coordinator.Trigger(context.Background())
	if err != nil {
		logger.Warn("some nodes could not be terminated", zap.Error(err))
	}
	fmt.Printf("Killed %d nodes: %v\n", len(killed), killed)
	return nil
}
