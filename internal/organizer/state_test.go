package organizer

import (
	"errors"
	"testing"
)

func TestState(t *testing.T) {
	record := Pending{
		DocPath:       "/dest/Ana/Informe.docx",
		PDFPath:       "/dest/Ana/Informe.pdf",
		PatientFolder: "/dest/Ana",
		Patient:       "Ana",
	}

	t.Run("zero value is idle", func(t *testing.T) {
		var s State
		if s.Phase() != PhaseIdle {
			t.Errorf("Phase() = %s, want %s", s.Phase(), PhaseIdle)
		}
		if s.Pending() != nil {
			t.Error("Pending() should be nil when idle")
		}
	})

	t.Run("await then complete", func(t *testing.T) {
		s, err := State{}.Await(record)
		if err != nil {
			t.Fatalf("Await() error = %v", err)
		}
		if s.Phase() != PhaseAwaitingConversion {
			t.Errorf("Phase() = %s, want %s", s.Phase(), PhaseAwaitingConversion)
		}
		if s.Pending().DocPath != record.DocPath {
			t.Errorf("Pending().DocPath = %s, want %s", s.Pending().DocPath, record.DocPath)
		}

		s, err = s.Complete()
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if s.Phase() != PhaseIdle {
			t.Errorf("Phase() = %s, want %s", s.Phase(), PhaseIdle)
		}
	})

	t.Run("await twice", func(t *testing.T) {
		s := StateFrom(&record)
		next, err := s.Await(record)
		if !errors.Is(err, ErrAlreadyAwaiting) {
			t.Errorf("Await() error = %v, want ErrAlreadyAwaiting", err)
		}
		if next.Phase() != PhaseAwaitingConversion {
			t.Error("failed Await() should leave state unchanged")
		}
	})

	t.Run("complete when idle", func(t *testing.T) {
		if _, err := (State{}).Complete(); !errors.Is(err, ErrNotAwaitingConversion) {
			t.Errorf("Complete() error = %v, want ErrNotAwaitingConversion", err)
		}
	})

	t.Run("incomplete record", func(t *testing.T) {
		if _, err := (State{}).Await(Pending{DocPath: "/x.docx"}); err == nil {
			t.Error("Await() expected error for incomplete record")
		}
	})
}
