package local

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tanglewood-labs/crucible/framework/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// writeStub writes an executable shell script standing in for a node
// binary. The stubs ignore their arguments, so launch plumbing can be
// exercised without real node binaries.
func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// testTopology builds the stock 11-node development topology against a
// temporary workspace, with a long-sleeping stub binary per role.
func testTopology(t *testing.T) types.Topology {
	t.Helper()

	binDir := t.TempDir()
	for _, role := range types.Roles() {
		writeStub(t, binDir, role.String(), "exec sleep 60")
	}

	topology := DefaultTopology()
	topology.ConfigPath = filepath.Join(binDir, "node_settings.toml")
	topology.BinDir = binDir
	topology.LogDir = t.TempDir()
	topology.DBDir = t.TempDir()
	topology.WalletDir = t.TempDir()
	return topology
}

// startStubNode spawns a stub process from a raw spec, for tests that need
// per-node scripts rather than a whole cluster.
func startStubNode(t *testing.T, n *Node) {
	t.Helper()
	require.NoError(t, n.start(os.Environ()))
	t.Cleanup(func() { _ = n.Kill() })
}

// safeBuffer is a concurrency-safe bytes.Buffer for collecting monitor
// output.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
