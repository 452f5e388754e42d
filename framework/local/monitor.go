package local

import (
	"context"
	"fmt"
	"io"

	"github.com/nxadm/tail"
	"go.uber.org/zap"
)

// Monitor follows one designated node's log file, streaming newly appended
// lines to the operator's terminal in arrival order. Running the monitor is
// the run's main blocking point.
type Monitor struct {
	log  *zap.Logger
	path string
	out  io.Writer
}

// NewMonitor creates a Monitor over the given log file, writing lines to
// out.
func NewMonitor(logger *zap.Logger, path string, out io.Writer) *Monitor {
	return &Monitor{log: logger, path: path, out: out}
}

// Run blocks, copying appended lines to the writer. It returns nil when
// the context is cancelled, or an error when the target file becomes
// permanently unavailable. The file does not need to exist yet: nodes
// create their log files as they start.
func (m *Monitor) Run(ctx context.Context) error {
	t, err := tail.TailFile(m.path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("tailing %s: %w", m.path, err)
	}
	defer func() { _ = t.Stop() }()

	m.log.Info("following node log", zap.String("path", m.path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				if err := t.Err(); err != nil {
					return fmt.Errorf("log stream for %s ended: %w", m.path, err)
				}
				return nil
			}
			if line.Err != nil {
				return fmt.Errorf("reading %s: %w", m.path, line.Err)
			}
			fmt.Fprintln(m.out, line.Text)
		}
	}
}
