package convert

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"terapias-go/internal/organizer"
)

func TestExecEditor_Open(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a unix shell")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "opened")
	stub := writeStub(t, dir, "editor", `printf '%s' "$1" > "`+marker+`"`)

	e := NewExecEditor(stub, organizer.NewNopLogger())
	doc := filepath.Join(dir, "Informe SS Ana.docx")
	if err := e.Open(context.Background(), doc); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(marker)
		if err == nil && len(data) > 0 {
			if string(data) != doc {
				t.Errorf("editor received %q, want %q", data, doc)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("editor stub never ran")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestExecEditor_OpenErrors(t *testing.T) {
	e := NewExecEditor(filepath.Join(t.TempDir(), "missing-editor"), organizer.NewNopLogger())
	if err := e.Open(context.Background(), "/x.docx"); err == nil {
		t.Error("Open() expected error for missing executable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Open(ctx, "/x.docx"); err == nil {
		t.Error("Open() expected error for cancelled context")
	}
}

func TestExecEditor_FallsBackToOpener(t *testing.T) {
	e := NewExecEditor("", organizer.NewNopLogger())
	name, args := e.command("/x.docx")
	wantName, _ := openerCommand("/x.docx")
	if name != wantName {
		t.Errorf("command = %s, want %s", name, wantName)
	}
	if args[len(args)-1] != "/x.docx" {
		t.Errorf("args = %v", args)
	}
}
