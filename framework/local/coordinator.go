package local

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CoordinatorState tracks the teardown state machine.
type CoordinatorState int

const (
	// StateArmed - installed, waiting for the operator interrupt
	StateArmed CoordinatorState = iota
	// StateTriggered - interrupt received
	StateTriggered
	// StateDraining - issuing termination requests to live handles
	StateDraining
	// StateReported - kill set reported to the operator
	StateReported
	// StateDone - teardown finished
	StateDone
)

// String returns the string representation of a CoordinatorState
func (s CoordinatorState) String() string {
	switch s {
	case StateArmed:
		return "Armed"
	case StateTriggered:
		return "Triggered"
	case StateDraining:
		return "Draining"
	case StateReported:
		return "Reported"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Coordinator turns a single teardown trigger into a best-effort
// termination broadcast over every live handle in the registry. It owns no
// process resources: it only requests termination and reports the target
// set.
type Coordinator struct {
	log      *zap.Logger
	registry *Registry

	mu     sync.Mutex
	state  CoordinatorState
	killed []int

	// closed once the winning trigger has recorded its kill set
	drained chan struct{}
}

// NewCoordinator creates an armed Coordinator over the given registry.
func NewCoordinator(logger *zap.Logger, registry *Registry) *Coordinator {
	return &Coordinator{
		log:      logger,
		registry: registry,
		state:    StateArmed,
		drained:  make(chan struct{}),
	}
}

// State returns the current teardown state.
func (c *Coordinator) State() CoordinatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Killed returns the process identifiers targeted by the drain.
func (c *Coordinator) Killed() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.killed...)
}

// Arm ties the coordinator to the given context: cancellation (the
// operator interrupt) triggers the termination broadcast. Tests can call
// Trigger directly instead of sending a real OS signal.
func (c *Coordinator) Arm(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_, _ = c.Trigger(context.Background())
	}()
}

// Trigger drains the registry, killing every handle still alive, and
// reports the targeted process identifiers. Triggering is idempotent: a
// second interrupt during or after the drain blocks until the drain has
// finished, then re-reports the same kill set. A kill that fails because
// the process already exited is not an error; any other kill failure is
// collected without stopping the drain.
func (c *Coordinator) Trigger(ctx context.Context) ([]int, error) {
	c.mu.Lock()
	if c.state != StateArmed {
		c.log.Debug("termination already triggered", zap.Stringer("state", c.state))
		c.mu.Unlock()
		// The losing caller must not report before the winner has
		// recorded its kill set.
		select {
		case <-c.drained:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return c.Killed(), nil
	}
	c.state = StateTriggered
	c.log.Info("termination triggered, draining cluster")
	c.mu.Unlock()

	var targets []*Node
	for _, n := range c.registry.Snapshot() {
		if n.Alive() {
			targets = append(targets, n)
		}
	}

	c.mu.Lock()
	c.state = StateDraining
	c.mu.Unlock()

	killed := make([]int, len(targets))
	killErrs := make([]error, len(targets))
	eg, _ := errgroup.WithContext(ctx)
	for i, n := range targets {
		i, n := i, n
		killed[i] = n.PID()
		eg.Go(func() error {
			if err := n.Kill(); err != nil {
				killErrs[i] = &TerminationError{Node: n.Name(), PID: n.PID(), Err: err}
			}
			return nil
		})
	}
	_ = eg.Wait()

	c.mu.Lock()
	c.killed = killed
	c.state = StateReported
	close(c.drained)
	c.mu.Unlock()

	c.log.Info("cluster terminated", zap.Ints("pids", killed))

	c.mu.Lock()
	c.state = StateDone
	c.mu.Unlock()

	return append([]int(nil), killed...), errors.Join(killErrs...)
}
