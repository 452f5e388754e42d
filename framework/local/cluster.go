package local

import (
	"context"
	"errors"
	"os"

	"github.com/tanglewood-labs/crucible/framework/types"
	"go.uber.org/zap"
)

// Cluster is a local-process deployment of the ledger network: an ordered
// list of node specs and the registry of handles spawned from them.
// Clusters are produced by a ClusterBuilder.
type Cluster struct {
	log         *zap.Logger
	specs       []NodeSpec
	registry    *Registry
	logLevelEnv string
}

// Specs returns the ordered node spec list for this run.
func (c *Cluster) Specs() []NodeSpec {
	return append([]NodeSpec(nil), c.specs...)
}

// Registry returns the ledger of spawned handles.
func (c *Cluster) Registry() *Registry {
	return c.registry
}

// Start spawns one process per spec, in spec order, registering a handle
// for each successful spawn. A failed spawn is recorded and reported but
// does not abort the remaining specs: the operator gets a full picture of a
// partial startup and decides whether to proceed. There is no retry and no
// readiness wait.
func (c *Cluster) Start(ctx context.Context) error {
	var spawnErrs []error
	for _, spec := range c.specs {
		if err := ctx.Err(); err != nil {
			spawnErrs = append(spawnErrs, &SpawnError{Node: spec.Name(), Err: err})
			break
		}

		node := newNode(spec, c.log)
		env := append(os.Environ(), c.logLevelEnv+"="+spec.LogLevel)
		if err := node.start(env); err != nil {
			spawnErr := &SpawnError{Node: spec.Name(), Err: err}
			c.log.Error("node failed to spawn", zap.String("node", spec.Name()), zap.Error(err))
			spawnErrs = append(spawnErrs, spawnErr)
			continue
		}
		c.registry.Append(node)
	}

	c.log.Info("cluster launch complete",
		zap.Int("spawned", c.registry.Len()),
		zap.Int("failed", len(spawnErrs)),
	)
	return errors.Join(spawnErrs...)
}

// LogFile returns the log file of the named node, e.g. "storage-0".
func (c *Cluster) LogFile(name string) (string, bool) {
	for _, spec := range c.specs {
		if spec.Name() == name {
			return spec.LogFile, true
		}
	}
	return "", false
}

// DefaultLogTarget returns the log file the operator follows by
// convention: the first storage node in launch order, falling back to the
// first spec.
func (c *Cluster) DefaultLogTarget() (string, bool) {
	for _, spec := range c.specs {
		if spec.Role == types.StorageRole {
			return spec.LogFile, true
		}
	}
	if len(c.specs) > 0 {
		return c.specs[0].LogFile, true
	}
	return "", false
}
