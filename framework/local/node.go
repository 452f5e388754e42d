package local

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// Node is the orchestrator's bookkeeping record for one spawned node
// process. It is created at spawn time and mutated only by background exit
// detection and by kill requests during teardown.
type Node struct {
	Spec NodeSpec

	log *zap.Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	alive     bool
	exitState *os.ProcessState
	exitErr   error
}

func newNode(spec NodeSpec, logger *zap.Logger) *Node {
	return &Node{
		Spec: spec,
		log: logger.With(
			zap.String("role", spec.Role.String()),
			zap.String("node", spec.Name()),
		),
	}
}

// Name identifies the node instance, e.g. "storage-1".
func (n *Node) Name() string {
	return n.Spec.Name()
}

// start spawns the node binary with the spec's arguments and the given
// environment, redirecting combined output to the spec's log file. The
// spawn is fire-and-forget: start does not wait for the node to become
// ready.
func (n *Node) start(env []string) error {
	logFile, err := os.OpenFile(n.Spec.LogFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}

	cmd := exec.Command(n.Spec.BinPath, n.Spec.Args()...)
	cmd.Env = env
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	// Each node gets its own process group so a signal aimed at the
	// orchestrator's group does not reach the children before the
	// coordinator drains them.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return err
	}
	// The child holds its own handle on the log file.
	_ = logFile.Close()

	n.mu.Lock()
	n.cmd = cmd
	n.alive = true
	n.mu.Unlock()

	go n.watch()

	n.log.Info("node started",
		zap.Int("pid", cmd.Process.Pid),
		zap.String("log_file", n.Spec.LogFile),
	)
	return nil
}

// watch reaps the child and records its exit for diagnostic reporting. The
// exit code is retained but not acted on.
func (n *Node) watch() {
	err := n.cmd.Wait()

	n.mu.Lock()
	n.alive = false
	n.exitState = n.cmd.ProcessState
	n.exitErr = err
	n.mu.Unlock()

	if n.cmd.ProcessState != nil {
		n.log.Debug("node exited", zap.String("state", n.cmd.ProcessState.String()))
	}
}

// PID returns the operating system process identifier, or 0 if the node
// never spawned.
func (n *Node) PID() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cmd == nil || n.cmd.Process == nil {
		return 0
	}
	return n.cmd.Process.Pid
}

// Alive reports whether the process is still believed to be running.
func (n *Node) Alive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.alive
}

// ExitState returns the recorded exit information once the process has
// terminated. Both values are nil while the process is running.
func (n *Node) ExitState() (*os.ProcessState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.exitState, n.exitErr
}

// Kill requests termination of the node process. A process that has
// already exited is not an error.
func (n *Node) Kill() error {
	n.mu.Lock()
	cmd := n.cmd
	n.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	err := cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	n.markDead()
	return nil
}

func (n *Node) markDead() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alive = false
}
