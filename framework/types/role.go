package types

import "fmt"

// NodeRole represents the role a node plays in the ledger network.
type NodeRole struct {
	roleString string
}

// String returns the string representation of the NodeRole
func (r NodeRole) String() string {
	return r.roleString
}

// Predefined node roles
var (
	StorageRole = NodeRole{"storage"}
	ComputeRole = NodeRole{"compute"}
	MinerRole   = NodeRole{"miner"}
	UserRole    = NodeRole{"user"}
)

// Roles lists every role in launch-priority order: storage and compute
// must be reachable before miners and the user attempt to connect.
func Roles() []NodeRole {
	return []NodeRole{StorageRole, ComputeRole, MinerRole, UserRole}
}

// ParseRole converts a role string from a topology file into a NodeRole.
func ParseRole(s string) (NodeRole, error) {
	for _, r := range Roles() {
		if r.roleString == s {
			return r, nil
		}
	}
	return NodeRole{}, fmt.Errorf("unknown node role %q", s)
}
