package local

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/tanglewood-labs/crucible/framework/types"
)

// LoadTopology reads a topology file.
func LoadTopology(path string) (types.Topology, error) {
	var t types.Topology
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return types.Topology{}, &ConfigError{
			Reason: fmt.Sprintf("decoding topology file %s", path),
			Err:    err,
		}
	}
	return t, nil
}

// DefaultTopology is the stock development deployment: two storage nodes,
// two compute nodes, six miners alternating between the compute instances,
// and one user node dialing in.
func DefaultTopology() types.Topology {
	t := types.Topology{
		ConfigPath: "config/node_settings.toml",
		BinDir:     "bin",
		LogDir:     "logs",
		DBDir:      "db",
		WalletDir:  "wallet",
		Namespace:  "test",
	}

	for i := 0; i < 2; i++ {
		t.Storage = append(t.Storage, types.NodeEntry{Index: intPtr(i)})
		t.Compute = append(t.Compute, types.NodeEntry{Index: intPtr(i)})
	}
	for i := 0; i < 6; i++ {
		t.Miner = append(t.Miner, types.NodeEntry{
			Index:        intPtr(i),
			ComputeIndex: intPtr(i % 2),
			Connect:      true,
		})
	}
	t.User = append(t.User, types.NodeEntry{Connect: true})

	return t
}

func intPtr(i int) *int {
	return &i
}
