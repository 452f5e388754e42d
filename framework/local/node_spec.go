package local

import (
	"fmt"
	"strconv"

	"github.com/tanglewood-labs/crucible/framework/types"
)

// NodeSpec is the immutable launch descriptor for one node process. Specs
// are produced once per run by the ClusterBuilder and never mutated after
// creation.
type NodeSpec struct {
	Role types.NodeRole
	// Index selects the node instance within its role. nil means the
	// implicit default instance and omits the --index flag.
	Index *int
	// PeerIndex identifies the compute instance a miner attaches to.
	PeerIndex *int
	// Connect marks instances that actively dial their peer.
	Connect bool
	// LogLevel is passed to the node's logging subsystem via the
	// environment.
	LogLevel string
	// ConfigPath is the shared node config file, identical across all
	// specs of one run.
	ConfigPath string
	// BinPath is the node binary to execute.
	BinPath string
	// LogFile receives the node's combined stdout and stderr. Unique
	// across the whole spec list.
	LogFile string
}

// Name identifies the node instance, e.g. "storage-1" or "user".
func (s NodeSpec) Name() string {
	if s.Index == nil {
		return s.Role.String()
	}
	return fmt.Sprintf("%s-%d", s.Role.String(), *s.Index)
}

// Args derives the command-line arguments for the node binary. The
// contract is shared by all roles: --config always, --index when an
// explicit instance is selected, --compute_index for miners, and
// --compute_connect for instances that dial their compute peer.
func (s NodeSpec) Args() []string {
	args := []string{"--config=" + s.ConfigPath}
	if s.Index != nil {
		args = append(args, "--index="+strconv.Itoa(*s.Index))
	}
	if s.PeerIndex != nil {
		args = append(args, "--compute_index="+strconv.Itoa(*s.PeerIndex))
	}
	if s.Connect {
		args = append(args, "--compute_connect")
	}
	return args
}
