package pending

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"

	"terapias-go/internal/organizer"
)

// lockRetryDelay is how often a blocked Lock retries.
const lockRetryDelay = 200 * time.Millisecond

// FileSystemStore keeps the pending record in a TOML file guarded by an
// exclusive file lock, so a second process cannot organize or finish at the
// same time.
//
// Directory structure:
//
//	<dir>/
//	  pending.toml   (present only while awaiting conversion)
//	  pending.lock
type FileSystemStore struct {
	dir   string
	path  string
	flock *flock.Flock
}

// record is the on-disk shape of the state file.
type record struct {
	Phase   organizer.Phase   `toml:"phase"`
	Pending organizer.Pending `toml:"pending"`
}

// NewFileSystemStore creates the state directory if needed.
func NewFileSystemStore(dir string) (*FileSystemStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pending directory: %w", err)
	}
	return &FileSystemStore{
		dir:   dir,
		path:  filepath.Join(dir, "pending.toml"),
		flock: flock.New(filepath.Join(dir, "pending.lock")),
	}, nil
}

// Lock blocks until the state lock is held or ctx is done.
func (s *FileSystemStore) Lock(ctx context.Context) (func() error, error) {
	ok, err := s.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another terapias process holds the workflow lock")
	}
	return s.flock.Unlock, nil
}

// Load returns the pending record, or nil if the state file does not exist.
func (s *FileSystemStore) Load() (*organizer.Pending, error) {
	var rec record
	if _, err := toml.DecodeFile(s.path, &rec); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	if rec.Phase != organizer.PhaseAwaitingConversion {
		return nil, nil
	}
	p := rec.Pending
	return &p, nil
}

// Save writes the record atomically (temp file + rename).
func (s *FileSystemStore) Save(p *organizer.Pending) error {
	if p == nil {
		return s.Clear()
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	rec := record{Phase: organizer.PhaseAwaitingConversion, Pending: *p}
	if err := toml.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding pending state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

// Clear removes the state file. Clearing an idle store is a no-op.
func (s *FileSystemStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", s.path, err)
	}
	return nil
}

// Compile-time check that FileSystemStore implements organizer.PendingStore
var _ organizer.PendingStore = (*FileSystemStore)(nil)
