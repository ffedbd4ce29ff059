//go:build !windows

package organizer

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"

	"terapias-go/internal/testutil"
)

// crossDeviceFs refuses to rename anything out of from, the way a rename
// between two mounts does.
type crossDeviceFs struct {
	afero.Fs
	from string
}

func (f *crossDeviceFs) Rename(oldname, newname string) error {
	if oldname == f.from {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EXDEV}
	}
	return f.Fs.Rename(oldname, newname)
}

func TestMover_CrossDevice(t *testing.T) {
	const src = "/mnt/usb/Informe.docx"
	const dst = "/dest/Ana/Informe.docx"

	fsys := &crossDeviceFs{Fs: afero.NewMemMapFs(), from: src}
	testutil.WriteFile(t, fsys, src, []byte("contenido"))
	if err := fsys.MkdirAll("/dest/Ana", 0755); err != nil {
		t.Fatal(err)
	}

	m := NewMover(fsys, RetryPolicy{MaxAttempts: 1, Delay: time.Second}, &testutil.RecordingSleeper{}, NewNopLogger())
	attempts, err := m.Move(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	testutil.AssertMissing(t, fsys, src)
	if got := testutil.ReadFile(t, fsys, dst); string(got) != "contenido" {
		t.Errorf("dst content = %q", got)
	}

	entries, err := afero.ReadDir(fsys, "/dest/Ana")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the moved file in /dest/Ana, found %d entries", len(entries))
	}
}
