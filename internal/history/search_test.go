package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func mkdirs(t *testing.T, fsys afero.Fs, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := fsys.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSearchPatients(t *testing.T) {
	const base = "/T"
	fsys := afero.NewMemMapFs()
	mkdirs(t, fsys,
		filepath.Join(base, "2025", "12- DICIEMBRE", "03 DE DICIEMBRE", "Ana López"),
		filepath.Join(base, "2026", "01- ENERO", "28 DE ENERO", "Ana López"),
		filepath.Join(base, "2026", "01- ENERO", "28 DE ENERO", "Mariana Ruiz"),
		filepath.Join(base, "2026", "01- ENERO", "29 DE ENERO", "Luz"),
	)
	if err := afero.WriteFile(fsys, filepath.Join(base, "2026", "01- ENERO", "28 DE ENERO", "ana.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("case-insensitive substring across years", func(t *testing.T) {
		got, err := SearchPatients(ctx, fsys, base, "ANA", 0)
		if err != nil {
			t.Fatalf("SearchPatients() error = %v", err)
		}
		want := []Match{
			{Patient: "Ana López", Path: filepath.Join(base, "2025", "12- DICIEMBRE", "03 DE DICIEMBRE", "Ana López"), Date: "2025/12- DICIEMBRE/03 DE DICIEMBRE"},
			{Patient: "Ana López", Path: filepath.Join(base, "2026", "01- ENERO", "28 DE ENERO", "Ana López"), Date: "2026/01- ENERO/28 DE ENERO"},
			{Patient: "Mariana Ruiz", Path: filepath.Join(base, "2026", "01- ENERO", "28 DE ENERO", "Mariana Ruiz"), Date: "2026/01- ENERO/28 DE ENERO"},
		}
		if len(got) != len(want) {
			t.Fatalf("SearchPatients() = %+v, want %d matches", got, len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("empty query", func(t *testing.T) {
		got, err := SearchPatients(ctx, fsys, base, "  ", 0)
		if err != nil || got != nil {
			t.Errorf("SearchPatients() = %+v, %v; want nil, nil", got, err)
		}
	})

	t.Run("missing base", func(t *testing.T) {
		got, err := SearchPatients(ctx, fsys, "/nowhere", "ana", 0)
		if err != nil || len(got) != 0 {
			t.Errorf("SearchPatients() = %+v, %v; want empty", got, err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		got, err := SearchPatients(ctx, fsys, base, "pedro", 0)
		if err != nil || len(got) != 0 {
			t.Errorf("SearchPatients() = %+v, %v; want empty", got, err)
		}
	})
}

func TestSearchPatients_Cap(t *testing.T) {
	const base = "/T"
	fsys := afero.NewMemMapFs()
	for y := 2020; y < 2024; y++ {
		for p := 0; p < 40; p++ {
			mkdirs(t, fsys, filepath.Join(base, fmt.Sprint(y), "01- ENERO", "01 DE ENERO", fmt.Sprintf("Paciente %02d", p)))
		}
	}

	got, err := SearchPatients(context.Background(), fsys, base, "paciente", 100)
	if err != nil {
		t.Fatalf("SearchPatients() error = %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("SearchPatients() returned %d, want 100", len(got))
	}
	if got[0].Date != "2020/01- ENERO/01 DE ENERO" || got[0].Patient != "Paciente 00" {
		t.Errorf("first = %+v", got[0])
	}
	if got[99].Date != "2022/01- ENERO/01 DE ENERO" || got[99].Patient != "Paciente 19" {
		t.Errorf("last = %+v", got[99])
	}
}

func TestSearchPatients_Cancelled(t *testing.T) {
	fsys := afero.NewMemMapFs()
	mkdirs(t, fsys, "/T/2026/01- ENERO/28 DE ENERO/Ana")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := SearchPatients(ctx, fsys, "/T", "ana", 0); err == nil {
		t.Error("SearchPatients() expected error for cancelled context")
	}
}
