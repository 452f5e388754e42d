package types

// NodeEntry describes one node instance in a topology. Index is optional;
// a nil Index means the implicit default instance of the role. ComputeIndex
// identifies the compute instance a miner attaches to. Connect marks
// instances that actively dial their peer rather than waiting passively.
type NodeEntry struct {
	Index        *int `toml:"index"`
	ComputeIndex *int `toml:"compute_index"`
	Connect      bool `toml:"connect"`
}

// Topology is the fixed set of node roles, indices and peer links for one
// cluster run, together with the per-deployment launch policy: where the
// node binaries live, which shared config file every node consumes, where
// log files go and which workspace directories hold persisted state from a
// previous run.
type Topology struct {
	// ConfigPath is the shared node config file, passed verbatim to every
	// node. Its schema is owned by the node binaries.
	ConfigPath string `toml:"config"`
	// BinDir contains one binary per role, named after the role.
	BinDir string `toml:"bin_dir"`
	// LogDir receives one log file per node.
	LogDir string `toml:"log_dir"`
	// DBDir and WalletDir hold persisted state artifacts from previous
	// runs, scoped by Namespace.
	DBDir     string `toml:"db_dir"`
	WalletDir string `toml:"wallet_dir"`
	// Namespace scopes persisted-state artifacts of test runs, e.g. "test"
	// for files named test.0, test.1, ...
	Namespace string `toml:"namespace"`

	// LogLevels maps a role name to the log level its nodes run at,
	// overriding the deployment defaults.
	LogLevels map[string]string `toml:"log_levels"`

	Storage []NodeEntry `toml:"storage"`
	Compute []NodeEntry `toml:"compute"`
	Miner   []NodeEntry `toml:"miner"`
	User    []NodeEntry `toml:"user"`
}

// Entries returns the topology entries for the given role.
func (t Topology) Entries(role NodeRole) []NodeEntry {
	switch role {
	case StorageRole:
		return t.Storage
	case ComputeRole:
		return t.Compute
	case MinerRole:
		return t.Miner
	case UserRole:
		return t.User
	}
	return nil
}

// Size returns the total number of node instances in the topology.
func (t Topology) Size() int {
	return len(t.Storage) + len(t.Compute) + len(t.Miner) + len(t.User)
}
