package local

import "sync"

// Registry is the ledger of all spawned node handles for the lifetime of a
// cluster run. It is append-only during the spawn phase; teardown reads a
// consistent snapshot in launch order. The orchestrator owns the Registry
// exclusively.
type Registry struct {
	mu    sync.Mutex
	nodes []*Node
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append records a spawned node handle. Insertion order is launch order.
func (r *Registry) Append(n *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = append(r.nodes, n)
}

// Snapshot returns the currently tracked handles in launch order.
func (r *Registry) Snapshot() []*Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Node(nil), r.nodes...)
}

// Len returns the number of tracked handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

// MarkDead flags the handle with the given pid as no longer alive,
// reporting whether a handle was found. Background exit detection uses it
// so that teardown sees "already exited" as an explicit state rather than a
// race.
func (r *Registry) MarkDead(pid int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if n.PID() == pid {
			n.markDead()
			return true
		}
	}
	return false
}
