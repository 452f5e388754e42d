package local

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tanglewood-labs/crucible/framework/types"
)

func TestRegistryPreservesInsertionOrder(t *testing.T) {
	registry := NewRegistry()

	for i := 0; i < 5; i++ {
		registry.Append(&Node{Spec: NodeSpec{Role: types.MinerRole, Index: intPtr(i)}})
	}

	require.Equal(t, 5, registry.Len())
	snapshot := registry.Snapshot()
	for i, n := range snapshot {
		require.Equal(t, i, *n.Spec.Index)
	}
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	registry := NewRegistry()
	registry.Append(&Node{Spec: NodeSpec{Role: types.UserRole}})

	snapshot := registry.Snapshot()
	registry.Append(&Node{Spec: NodeSpec{Role: types.StorageRole, Index: intPtr(0)}})

	require.Len(t, snapshot, 1)
	require.Equal(t, 2, registry.Len())
}

func TestRegistryConcurrentAppend(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			registry.Append(&Node{Spec: NodeSpec{Role: types.MinerRole, Index: intPtr(i)}})
		}()
	}
	wg.Wait()

	require.Equal(t, 32, registry.Len())
}

func TestRegistryMarkDead(t *testing.T) {
	binDir := t.TempDir()
	bin := writeStub(t, binDir, "miner", "exec sleep 60")

	n := newNode(NodeSpec{
		Role:    types.MinerRole,
		Index:   intPtr(0),
		BinPath: bin,
		LogFile: binDir + "/miner-0.log",
	}, testLogger(t))
	startStubNode(t, n)

	registry := NewRegistry()
	registry.Append(n)

	require.True(t, n.Alive())
	require.True(t, registry.MarkDead(n.PID()))
	require.False(t, n.Alive())

	require.False(t, registry.MarkDead(99999999), "unknown pid is not tracked")
}
