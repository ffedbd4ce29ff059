package organizer

import (
	"fmt"
	"time"
)

// Phase is a step of the two-phase intake workflow.
type Phase string

const (
	// PhaseIdle means no document is waiting on the operator.
	PhaseIdle Phase = "idle"
	// PhaseAwaitingConversion means a document was placed and the operator
	// still has to export it to PDF before it can be backed up.
	PhaseAwaitingConversion Phase = "awaiting_conversion"
)

// Pending carries everything phase 2 needs to finish a placed document.
type Pending struct {
	DocPath       string    `toml:"doc_path"`
	PDFPath       string    `toml:"pdf_path"`
	PatientFolder string    `toml:"patient_folder"`
	Patient       string    `toml:"patient"`
	OperationID   string    `toml:"operation_id"`
	CreatedAt     time.Time `toml:"created_at"`
}

// State is the workflow state machine. The zero value is idle.
type State struct {
	pending *Pending
}

// StateFrom rebuilds a State from a stored pending record (nil means idle).
func StateFrom(p *Pending) State {
	return State{pending: p}
}

// Phase returns the current phase.
func (s State) Phase() Phase {
	if s.pending == nil {
		return PhaseIdle
	}
	return PhaseAwaitingConversion
}

// Pending returns the awaiting record, or nil when idle.
func (s State) Pending() *Pending {
	return s.pending
}

// Await moves Idle -> AwaitingConversion.
func (s State) Await(p Pending) (State, error) {
	if s.pending != nil {
		return s, fmt.Errorf("%w: %s", ErrAlreadyAwaiting, s.pending.DocPath)
	}
	if p.DocPath == "" || p.PDFPath == "" || p.PatientFolder == "" {
		return s, fmt.Errorf("incomplete pending record: doc=%q pdf=%q folder=%q", p.DocPath, p.PDFPath, p.PatientFolder)
	}
	return State{pending: &p}, nil
}

// Complete moves AwaitingConversion -> Idle.
func (s State) Complete() (State, error) {
	if s.pending == nil {
		return s, ErrNotAwaitingConversion
	}
	return State{}, nil
}
