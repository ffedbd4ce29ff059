package organizer

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned when the operator supplied a blank name.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrPathTooLong is returned when the resolved file path exceeds the configured limit.
	ErrPathTooLong = errors.New("path exceeds maximum length")
	// ErrCollisionLimit is returned when every numbered candidate name is taken.
	ErrCollisionLimit = errors.New("no free file name")
	// ErrUnknownPatient is returned when no patient could be extracted and the caller did not accept that.
	ErrUnknownPatient = errors.New("no patient marker in name")
	// ErrNoDocuments is returned when the source folder has no candidate documents.
	ErrNoDocuments = errors.New("no documents found")
	// ErrDocumentMissing is returned when the document to organize or back up is gone.
	ErrDocumentMissing = errors.New("document not found")
	// ErrAlreadyAwaiting is returned when organizing while a previous document still awaits conversion.
	ErrAlreadyAwaiting = errors.New("a document is already awaiting conversion")
	// ErrNotAwaitingConversion is returned when finishing with nothing pending.
	ErrNotAwaitingConversion = errors.New("no document is awaiting conversion")
	// ErrConversionFailed is returned when the PDF converter reports failure.
	ErrConversionFailed = errors.New("pdf conversion failed")
	// ErrPDFMissing is returned when conversion claimed success but no PDF exists.
	ErrPDFMissing = errors.New("pdf not found after conversion")
)

// MoveError reports a move that failed on every attempt.
// The source is left where it was.
type MoveError struct {
	Src      string
	Dst      string
	Attempts int
	Err      error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("moving %s to %s failed after %d attempt(s): %v", e.Src, e.Dst, e.Attempts, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }
