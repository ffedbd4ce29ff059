package organizer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func touch(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveCollision(t *testing.T) {
	folder := filepath.Join("/dest", "Ana")

	t.Run("free name is used as is", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		got, err := ResolveCollision(fsys, folder, "Informe", ".docx", 0)
		if err != nil {
			t.Fatalf("ResolveCollision() error = %v", err)
		}
		if want := filepath.Join(folder, "Informe.docx"); got != want {
			t.Errorf("ResolveCollision() = %s, want %s", got, want)
		}
	})

	t.Run("first free numbered suffix", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		touch(t, fsys, filepath.Join(folder, "Informe.docx"))
		touch(t, fsys, filepath.Join(folder, "Informe_1.docx"))
		touch(t, fsys, filepath.Join(folder, "Informe_3.docx"))

		got, err := ResolveCollision(fsys, folder, "Informe", ".docx", 0)
		if err != nil {
			t.Fatalf("ResolveCollision() error = %v", err)
		}
		if want := filepath.Join(folder, "Informe_2.docx"); got != want {
			t.Errorf("ResolveCollision() = %s, want %s", got, want)
		}
	})

	t.Run("other extensions do not collide", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		touch(t, fsys, filepath.Join(folder, "Informe.pdf"))

		got, err := ResolveCollision(fsys, folder, "Informe", ".docx", 0)
		if err != nil {
			t.Fatalf("ResolveCollision() error = %v", err)
		}
		if want := filepath.Join(folder, "Informe.docx"); got != want {
			t.Errorf("ResolveCollision() = %s, want %s", got, want)
		}
	})

	t.Run("gives up past the limit", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		touch(t, fsys, filepath.Join(folder, "Informe.docx"))
		touch(t, fsys, filepath.Join(folder, "Informe_1.docx"))
		touch(t, fsys, filepath.Join(folder, "Informe_2.docx"))

		_, err := ResolveCollision(fsys, folder, "Informe", ".docx", 2)
		if !errors.Is(err, ErrCollisionLimit) {
			t.Errorf("ResolveCollision() error = %v, want ErrCollisionLimit", err)
		}
	})
}

func TestResolveStem(t *testing.T) {
	folder := filepath.Join("/dest", "Ana")
	exts := []string{".docx", ".pdf"}

	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"all free", nil, "Informe"},
		{"pdf left by an earlier session", []string{"Informe.pdf"}, "Informe_1"},
		{"document taken", []string{"Informe.docx"}, "Informe_1"},
		{"pairs on different suffixes", []string{"Informe.pdf", "Informe_1.docx"}, "Informe_2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			for _, name := range tt.existing {
				touch(t, fsys, filepath.Join(folder, name))
			}
			got, err := ResolveStem(fsys, folder, "Informe", exts, 0)
			if err != nil {
				t.Fatalf("ResolveStem() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveStem() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("limit shared across extensions", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		touch(t, fsys, filepath.Join(folder, "Informe.docx"))
		touch(t, fsys, filepath.Join(folder, "Informe_1.pdf"))

		_, err := ResolveStem(fsys, folder, "Informe", exts, 1)
		if !errors.Is(err, ErrCollisionLimit) {
			t.Errorf("ResolveStem() error = %v, want ErrCollisionLimit", err)
		}
	})
}

func TestCheckPathLength(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"short", `C:\TERAPIAS\2026\Informe.docx`, true},
		{"exactly at limit", strings.Repeat("a", 250), true},
		{"one over", strings.Repeat("a", 251), false},
		{"counts characters not bytes", strings.Repeat("ñ", 250), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CheckPathLength(tt.path, DefaultMaxPathLen); got != tt.want {
				t.Errorf("CheckPathLength(len=%d) = %v, want %v", len(tt.path), got, tt.want)
			}
		})
	}
}

func TestEnsureFolders(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dates := BuildDatePath("/dest", 2026, 1, 28, MonthNames)
	patient := filepath.Join(dates.Day, "Ana")

	for i := 0; i < 2; i++ {
		if err := EnsureFolders(fsys, dates.Year, dates.Month, dates.Day, patient); err != nil {
			t.Fatalf("EnsureFolders() pass %d error = %v", i+1, err)
		}
	}

	ok, err := afero.DirExists(fsys, patient)
	if err != nil || !ok {
		t.Errorf("DirExists(%s) = %v, %v", patient, ok, err)
	}
}

func TestEnsureFolders_FileInTheWay(t *testing.T) {
	fsys := afero.NewOsFs()
	base := t.TempDir()
	blocker := filepath.Join(base, "2026")
	touch(t, fsys, blocker)

	if err := EnsureFolders(fsys, filepath.Join(blocker, "01- ENERO")); err == nil {
		t.Error("EnsureFolders() expected error when a file blocks the path")
	}
}
