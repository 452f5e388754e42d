package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/avast/retry-go/v4"
	"github.com/tanglewood-labs/crucible/framework/types"
	"go.uber.org/zap"
)

// ArtifactPatterns derives the glob patterns matching a previous run's
// persisted state: the database and wallet files scoped to the topology's
// test namespace.
func ArtifactPatterns(t types.Topology) []string {
	namespace := t.Namespace
	if namespace == "" {
		namespace = "test"
	}

	var patterns []string
	if t.DBDir != "" {
		patterns = append(patterns, filepath.Join(t.DBDir, namespace+".*"))
	}
	if t.WalletDir != "" {
		patterns = append(patterns, filepath.Join(t.WalletDir, namespace+".*"))
	}
	return patterns
}

// Cleaner removes stale persisted state belonging to a previous run before
// a fresh launch. Cleaning is idempotent: absent artifacts are not an
// error. Any artifact that cannot be removed fails the run, since stale
// state corrupts the new one.
type Cleaner struct {
	log      *zap.Logger
	patterns []string
}

// NewCleaner creates a Cleaner for the given glob patterns.
func NewCleaner(logger *zap.Logger, patterns ...string) *Cleaner {
	return &Cleaner{log: logger, patterns: patterns}
}

// Clean removes every artifact matching the cleaner's patterns. All
// patterns are processed even when one fails; the joined error reports
// every artifact that survived.
func (c *Cleaner) Clean(ctx context.Context) error {
	var cleanupErrs []error
	removed := 0

	for _, pattern := range c.patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			cleanupErrs = append(cleanupErrs, &CleanupError{Path: pattern, Err: err})
			continue
		}
		for _, path := range matches {
			if err := c.remove(ctx, path); err != nil {
				cleanupErrs = append(cleanupErrs, &CleanupError{Path: path, Err: err})
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		c.log.Info("removed stale artifacts", zap.Int("count", removed))
	}
	return errors.Join(cleanupErrs...)
}

// remove deletes one artifact, retrying briefly: a straggler process from
// the previous run may still hold the file.
func (c *Cleaner) remove(ctx context.Context, path string) error {
	return retry.Do(
		func() error {
			return os.RemoveAll(path)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.DelayType(retry.FixedDelay),
	)
}
