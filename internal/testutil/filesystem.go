package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// ErrLocked simulates a file held open by another process.
var ErrLocked = errors.New("file is locked by another process")

// FlakyFs wraps an afero.Fs and fails the first FailRenames calls to Rename.
type FlakyFs struct {
	afero.Fs

	mu          sync.Mutex
	FailRenames int
	Renames     int
}

// NewFlakyFs wraps fsys so that the first failures renames return ErrLocked.
func NewFlakyFs(fsys afero.Fs, failures int) *FlakyFs {
	return &FlakyFs{Fs: fsys, FailRenames: failures}
}

func (f *FlakyFs) Rename(oldname, newname string) error {
	f.mu.Lock()
	f.Renames++
	fail := f.Renames <= f.FailRenames
	f.mu.Unlock()
	if fail {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: ErrLocked}
	}
	return f.Fs.Rename(oldname, newname)
}

// WriteFile creates parent directories and writes content to path in fsys.
func WriteFile(t *testing.T, fsys afero.Fs, path string, content []byte) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error = %v", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fsys, path, content, 0644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

// ReadFile returns the content at path or fails the test.
func ReadFile(t *testing.T, fsys afero.Fs, path string) []byte {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return data
}

// AssertExists fails the test if path does not exist in fsys.
func AssertExists(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	if err != nil {
		t.Fatalf("Exists(%s) error = %v", path, err)
	}
	if !ok {
		t.Errorf("expected %s to exist", path)
	}
}

// AssertMissing fails the test if path exists in fsys.
func AssertMissing(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	if err != nil {
		t.Fatalf("Exists(%s) error = %v", path, err)
	}
	if ok {
		t.Errorf("expected %s not to exist", path)
	}
}
