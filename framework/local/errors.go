package local

import "fmt"

// ConfigError reports a malformed topology or launch policy. It is fatal
// before any node is spawned.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid cluster configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid cluster configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CleanupError reports a persisted-state artifact that could not be removed
// before launch. It is fatal: stale state must not leak into a fresh run.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("failed to remove stale artifact %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// SpawnError reports a single node that failed to start. It does not abort
// the rest of the launch batch; the operator gets the full picture of a
// partial startup.
type SpawnError struct {
	Node string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn node %s: %v", e.Node, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// TerminationError reports a kill request that failed for a reason other
// than the process having already exited. It does not stop the drain of the
// remaining handles.
type TerminationError struct {
	Node string
	PID  int
	Err  error
}

func (e *TerminationError) Error() string {
	return fmt.Sprintf("failed to terminate node %s (pid %d): %v", e.Node, e.PID, e.Err)
}

func (e *TerminationError) Unwrap() error {
	return e.Err
}
