package pending

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"terapias-go/internal/organizer"
)

func samplePending() *organizer.Pending {
	return &organizer.Pending{
		DocPath:       "/dest/2026/01- ENERO/28 DE ENERO/Ana/Informe SS Ana.docx",
		PDFPath:       "/dest/2026/01- ENERO/28 DE ENERO/Ana/Informe SS Ana.pdf",
		PatientFolder: "/dest/2026/01- ENERO/28 DE ENERO/Ana",
		Patient:       "Ana",
		OperationID:   "id-1",
		CreatedAt:     time.Date(2026, 1, 28, 10, 30, 0, 0, time.UTC),
	}
}

func TestFileSystemStore(t *testing.T) {
	t.Run("load on fresh store is idle", func(t *testing.T) {
		s, err := NewFileSystemStore(filepath.Join(t.TempDir(), "state"))
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		p, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if p != nil {
			t.Errorf("Load() = %+v, want nil", p)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewFileSystemStore(dir)
		if err != nil {
			t.Fatal(err)
		}
		want := samplePending()
		if err := s.Save(want); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		// A second store on the same directory sees the record.
		other, err := NewFileSystemStore(dir)
		if err != nil {
			t.Fatal(err)
		}
		got, err := other.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got == nil {
			t.Fatal("Load() = nil, want record")
		}
		if got.DocPath != want.DocPath || got.PDFPath != want.PDFPath || got.Patient != want.Patient || got.OperationID != want.OperationID {
			t.Errorf("Load() = %+v, want %+v", got, want)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if filepath.Ext(e.Name()) != ".toml" && filepath.Ext(e.Name()) != ".lock" {
				t.Errorf("unexpected leftover file %s", e.Name())
			}
		}
	})

	t.Run("clear", func(t *testing.T) {
		s, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear() on idle store error = %v", err)
		}
		if err := s.Save(samplePending()); err != nil {
			t.Fatal(err)
		}
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if p, _ := s.Load(); p != nil {
			t.Errorf("Load() after Clear = %+v, want nil", p)
		}
	})

	t.Run("save nil clears", func(t *testing.T) {
		s, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Save(samplePending()); err != nil {
			t.Fatal(err)
		}
		if err := s.Save(nil); err != nil {
			t.Fatalf("Save(nil) error = %v", err)
		}
		if p, _ := s.Load(); p != nil {
			t.Errorf("Load() = %+v, want nil", p)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewFileSystemStore(dir)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "pending.toml"), []byte("phase = ["), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Load(); err == nil {
			t.Error("Load() expected error for corrupt file")
		}
	})

	t.Run("lock excludes a second holder", func(t *testing.T) {
		dir := t.TempDir()
		first, err := NewFileSystemStore(dir)
		if err != nil {
			t.Fatal(err)
		}
		second, err := NewFileSystemStore(dir)
		if err != nil {
			t.Fatal(err)
		}

		unlock, err := first.Lock(context.Background())
		if err != nil {
			t.Fatalf("Lock() error = %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		if _, err := second.Lock(ctx); err == nil {
			t.Fatal("second Lock() expected error while first holds it")
		}

		if err := unlock(); err != nil {
			t.Fatalf("unlock() error = %v", err)
		}
		unlock2, err := second.Lock(context.Background())
		if err != nil {
			t.Fatalf("second Lock() after release error = %v", err)
		}
		unlock2()
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if p, err := s.Load(); err != nil || p != nil {
		t.Fatalf("Load() = %+v, %v; want nil, nil", p, err)
	}

	want := samplePending()
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}
	want.Patient = "changed"

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Patient != "Ana" {
		t.Errorf("store shares memory with caller: Patient = %q", got.Patient)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.Load(); p != nil {
		t.Errorf("Load() after Clear = %+v", p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Lock(ctx); err == nil {
		t.Error("Lock() expected error for cancelled context")
	}
}
