package local

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tanglewood-labs/crucible/framework/types"
	"go.uber.org/zap/zaptest"
)

func TestClusterBuilderLaunchOrder(t *testing.T) {
	cluster, err := NewClusterBuilder().
		WithLogger(zaptest.NewLogger(t)).
		WithTopology(testTopology(t)).
		Build()
	require.NoError(t, err)

	var names []string
	for _, spec := range cluster.Specs() {
		names = append(names, spec.Name())
	}
	require.Equal(t, []string{
		"storage-1", "storage-0",
		"compute-1", "compute-0",
		"miner-5", "miner-4", "miner-3", "miner-2", "miner-1", "miner-0",
		"user",
	}, names)
}

func TestClusterBuilderSpecInvariants(t *testing.T) {
	topology := testTopology(t)
	cluster, err := NewClusterBuilder().
		WithLogger(zaptest.NewLogger(t)).
		WithTopology(topology).
		Build()
	require.NoError(t, err)

	specs := cluster.Specs()
	require.Len(t, specs, topology.Size())

	logFiles := make(map[string]bool)
	for _, spec := range specs {
		require.Equal(t, topology.ConfigPath, spec.ConfigPath, "config path must be shared")
		require.False(t, logFiles[spec.LogFile], "log file %s is not unique", spec.LogFile)
		logFiles[spec.LogFile] = true
	}
}

func TestClusterBuilderLogLevelPolicy(t *testing.T) {
	topology := testTopology(t)

	cluster, err := NewClusterBuilder().
		WithLogger(zaptest.NewLogger(t)).
		WithTopology(topology).
		Build()
	require.NoError(t, err)

	for _, spec := range cluster.Specs() {
		switch spec.Role {
		case types.StorageRole, types.UserRole:
			require.Equal(t, "debug", spec.LogLevel)
		case types.ComputeRole, types.MinerRole:
			require.Equal(t, "warn", spec.LogLevel)
		}
	}

	// the topology's [log_levels] table overrides the defaults per role
	topology.LogLevels = map[string]string{"miner": "trace"}
	cluster, err = NewClusterBuilder().
		WithLogger(zaptest.NewLogger(t)).
		WithTopology(topology).
		Build()
	require.NoError(t, err)

	for _, spec := range cluster.Specs() {
		if spec.Role == types.MinerRole {
			require.Equal(t, "trace", spec.LogLevel)
		}
	}
}

func TestClusterBuilderRejectsMalformedTopologies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.Topology)
	}{
		{
			name:   "missing config path",
			mutate: func(topo *types.Topology) { topo.ConfigPath = "" },
		},
		{
			name:   "missing binary directory",
			mutate: func(topo *types.Topology) { topo.BinDir = "" },
		},
		{
			name:   "missing log directory",
			mutate: func(topo *types.Topology) { topo.LogDir = "" },
		},
		{
			name: "empty topology",
			mutate: func(topo *types.Topology) {
				topo.Storage, topo.Compute, topo.Miner, topo.User = nil, nil, nil, nil
			},
		},
		{
			name: "negative index",
			mutate: func(topo *types.Topology) {
				topo.Storage[0].Index = intPtr(-1)
			},
		},
		{
			name: "duplicate instance",
			mutate: func(topo *types.Topology) {
				topo.Compute[1].Index = intPtr(0)
			},
		},
		{
			name: "miner attached to absent compute",
			mutate: func(topo *types.Topology) {
				topo.Miner[0].ComputeIndex = intPtr(7)
			},
		},
		{
			name: "compute_index on a storage node",
			mutate: func(topo *types.Topology) {
				topo.Storage[0].ComputeIndex = intPtr(0)
			},
		},
		{
			name: "connect on a compute node",
			mutate: func(topo *types.Topology) {
				topo.Compute[0].Connect = true
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			topology := testTopology(t)
			tc.mutate(&topology)

			_, err := NewClusterBuilder().
				WithLogger(zaptest.NewLogger(t)).
				WithTopology(topology).
				Build()
			require.Error(t, err)

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
		})
	}
}

func TestClusterBuilderLogLevelEnvOverride(t *testing.T) {
	cluster, err := NewClusterBuilder().
		WithLogger(zaptest.NewLogger(t)).
		WithTopology(testTopology(t)).
		WithLogLevelEnv("NODE_LOG").
		Build()
	require.NoError(t, err)
	require.Equal(t, "NODE_LOG", cluster.logLevelEnv)
}
