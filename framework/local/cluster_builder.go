package local

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/tanglewood-labs/crucible/framework/types"
	"go.uber.org/zap"
)

// DefaultLogLevelEnv is the environment variable the node binaries read
// their log level from.
const DefaultLogLevelEnv = "RUST_LOG"

// defaultLogLevels is the deployment default verbosity policy: storage and
// user nodes run verbose, compute and miner nodes run quiet. A topology's
// [log_levels] table overrides it per role.
var defaultLogLevels = map[string]string{
	types.StorageRole.String(): "debug",
	types.ComputeRole.String(): "warn",
	types.MinerRole.String():   "warn",
	types.UserRole.String():    "debug",
}

// ClusterBuilder provides a fluent interface for building a Cluster from a
// topology.
type ClusterBuilder struct {
	logger      *zap.Logger
	topology    types.Topology
	logLevelEnv string
}

// NewClusterBuilder creates a new ClusterBuilder with the default launch
// policy.
func NewClusterBuilder() *ClusterBuilder {
	return &ClusterBuilder{
		logger:      zap.NewNop(),
		logLevelEnv: DefaultLogLevelEnv,
	}
}

// WithLogger sets the logger.
func (b *ClusterBuilder) WithLogger(logger *zap.Logger) *ClusterBuilder {
	b.logger = logger
	return b
}

// WithTopology sets the cluster topology.
func (b *ClusterBuilder) WithTopology(topology types.Topology) *ClusterBuilder {
	b.topology = topology
	return b
}

// WithLogLevelEnv sets the environment variable carrying each node's log
// level.
func (b *ClusterBuilder) WithLogLevelEnv(name string) *ClusterBuilder {
	b.logLevelEnv = name
	return b
}

// Build validates the topology and produces the Cluster with its full,
// ordered spec list. Build performs no I/O; a malformed topology is
// reported as a *ConfigError.
func (b *ClusterBuilder) Build() (*Cluster, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	specs := b.buildSpecs()

	return &Cluster{
		log:         b.logger,
		specs:       specs,
		registry:    NewRegistry(),
		logLevelEnv: b.logLevelEnv,
	}, nil
}

func (b *ClusterBuilder) validate() error {
	t := b.topology

	if t.ConfigPath == "" {
		return &ConfigError{Reason: "missing node config path"}
	}
	if t.BinDir == "" {
		return &ConfigError{Reason: "missing node binary directory"}
	}
	if t.LogDir == "" {
		return &ConfigError{Reason: "missing log directory"}
	}
	if t.Size() == 0 {
		return &ConfigError{Reason: "topology contains no nodes"}
	}

	computeIndices := make(map[int]bool)
	for _, entry := range t.Compute {
		if entry.Index != nil {
			computeIndices[*entry.Index] = true
		}
	}

	for _, role := range types.Roles() {
		seen := make(map[string]bool)
		for _, entry := range t.Entries(role) {
			name := entryName(role, entry)

			if entry.Index != nil && *entry.Index < 0 {
				return &ConfigError{Reason: fmt.Sprintf("node %s has negative index", name)}
			}
			if seen[name] {
				return &ConfigError{Reason: fmt.Sprintf("duplicate node %s", name)}
			}
			seen[name] = true

			if entry.ComputeIndex != nil && role != types.MinerRole {
				return &ConfigError{Reason: fmt.Sprintf("node %s: compute_index is only valid for miners", name)}
			}
			if entry.Connect && (role == types.StorageRole || role == types.ComputeRole) {
				return &ConfigError{Reason: fmt.Sprintf("node %s: connect is only valid for miners and users", name)}
			}
			if role == types.MinerRole && entry.ComputeIndex != nil && !computeIndices[*entry.ComputeIndex] {
				return &ConfigError{
					Reason: fmt.Sprintf("node %s attaches to compute %d which is not in the topology", name, *entry.ComputeIndex),
				}
			}
		}
	}

	return nil
}

// buildSpecs translates the topology into the ordered spec list. The order
// is the deployment's startup priority: storage nodes first, then compute,
// then miners, then the user node, with descending indices within each
// role. The ordering is a launch policy only; it does not guarantee that a
// peer is ready to accept connections when a later node starts.
func (b *ClusterBuilder) buildSpecs() []NodeSpec {
	t := b.topology

	var specs []NodeSpec
	for _, role := range types.Roles() {
		entries := append([]types.NodeEntry(nil), t.Entries(role)...)
		sort.SliceStable(entries, func(i, j int) bool {
			return effectiveIndex(entries[i]) > effectiveIndex(entries[j])
		})

		for _, entry := range entries {
			spec := NodeSpec{
				Role:       role,
				Index:      entry.Index,
				PeerIndex:  entry.ComputeIndex,
				Connect:    entry.Connect,
				LogLevel:   b.logLevel(role),
				ConfigPath: t.ConfigPath,
				BinPath:    filepath.Join(t.BinDir, role.String()),
			}
			spec.LogFile = filepath.Join(t.LogDir, spec.Name()+".log")
			specs = append(specs, spec)
		}
	}
	return specs
}

func (b *ClusterBuilder) logLevel(role types.NodeRole) string {
	if level, ok := b.topology.LogLevels[role.String()]; ok {
		return level
	}
	return defaultLogLevels[role.String()]
}

func entryName(role types.NodeRole, entry types.NodeEntry) string {
	if entry.Index == nil {
		return role.String()
	}
	return fmt.Sprintf("%s-%d", role.String(), *entry.Index)
}

func effectiveIndex(entry types.NodeEntry) int {
	if entry.Index == nil {
		return 0
	}
	return *entry.Index
}
