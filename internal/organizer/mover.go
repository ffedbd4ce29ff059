package organizer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// RetryPolicy bounds how often a failed move is retried.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the word processor's usual lock release time.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: 3 * time.Second}

// Mover moves files with a bounded number of attempts. A move is all or
// nothing per attempt: either the source is gone and the destination holds
// its content, or the source is untouched and nothing is left at the
// destination.
type Mover struct {
	fs      afero.Fs
	policy  RetryPolicy
	sleeper Sleeper
	logger  Logger
}

// NewMover creates a Mover. A policy with MaxAttempts < 1 is treated as a single attempt.
func NewMover(fsys afero.Fs, policy RetryPolicy, sleeper Sleeper, logger Logger) *Mover {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Mover{fs: fsys, policy: policy, sleeper: sleeper, logger: logger}
}

// Move moves src to dst, retrying on any error. It returns the number of
// attempts made. On exhaustion the error is a *MoveError.
func (m *Mover) Move(ctx context.Context, src, dst string) (int, error) {
	return m.Retry(ctx, src, dst, func() error { return m.moveOnce(src, dst) })
}

// Retry runs op until it succeeds or the policy is exhausted, logging every
// attempt against src and dst. op must leave src untouched when it fails.
func (m *Mover) Retry(ctx context.Context, src, dst string, op func() error) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= m.policy.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			m.logger.Info("move succeeded", "attempt", attempt, "max_attempts", m.policy.MaxAttempts, "src", src, "dst", dst)
			return attempt, nil
		}
		m.logger.Warn("move attempt failed", "attempt", attempt, "max_attempts", m.policy.MaxAttempts, "src", src, "dst", dst, "error", lastErr)

		if attempt == m.policy.MaxAttempts {
			break
		}
		if err := m.sleeper.Sleep(ctx, m.policy.Delay); err != nil {
			m.logger.Error("move abandoned", "attempt", attempt, "src", src, "dst", dst, "error", err)
			return attempt, &MoveError{Src: src, Dst: dst, Attempts: attempt, Err: err}
		}
	}
	m.logger.Error("move failed", "attempts", m.policy.MaxAttempts, "src", src, "dst", dst, "error", lastErr)
	return m.policy.MaxAttempts, &MoveError{Src: src, Dst: dst, Attempts: m.policy.MaxAttempts, Err: lastErr}
}

// moveOnce renames src to dst, falling back to copy-then-remove across
// filesystems. It never overwrites an existing dst.
func (m *Mover) moveOnce(src, dst string) error {
	info, err := m.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source is a directory: %s", src)
	}
	exists, err := afero.Exists(m.fs, dst)
	if err != nil {
		return fmt.Errorf("checking destination: %w", err)
	}
	if exists {
		return fmt.Errorf("destination already exists: %s", dst)
	}

	err = m.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	m.logger.Debug("rename crosses filesystems, copying instead", "src", src, "dst", dst)
	return m.copyThenRemove(src, dst, info.Mode().Perm())
}

// copyThenRemove copies src next to dst under a temp name, renames it into
// place and removes src. If src cannot be removed the copy is deleted again.
func (m *Mover) copyThenRemove(src, dst string, perm os.FileMode) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp, err := afero.TempFile(m.fs, filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			m.fs.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copying data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	in.Close()
	m.fs.Chmod(tmpPath, perm)

	if err := m.fs.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true

	if err := m.fs.Remove(src); err != nil {
		if rmErr := m.fs.Remove(dst); rmErr != nil {
			m.logger.Error("could not undo copy", "dst", dst, "error", rmErr)
		}
		return fmt.Errorf("removing source: %w", err)
	}
	return nil
}
