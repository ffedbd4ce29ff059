package organizer

import (
	"context"
	"time"
)

// Document is a candidate intake file in the source folder.
type Document struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// DocumentLister lists candidate documents in a folder, newest first.
type DocumentLister interface {
	ListDocuments(folder string) ([]Document, error)
}

// Converter exports a word-processor document to PDF.
// It returns true only when the export succeeded.
type Converter interface {
	Convert(ctx context.Context, docPath, pdfPath string) bool
}

// Editor hands a document to the word processor for the operator to edit.
type Editor interface {
	Open(ctx context.Context, path string) error
}

// Archiver moves a finished document into the backup location and returns
// where it ended up.
type Archiver interface {
	Archive(ctx context.Context, src string) (string, error)
}

// PendingStore persists the AwaitingConversion state between the two phases.
// Lock must be held while reading and writing; it returns the release func.
type PendingStore interface {
	Lock(ctx context.Context) (unlock func() error, err error)
	// Load returns nil when nothing is pending.
	Load() (*Pending, error)
	Save(p *Pending) error
	Clear() error
}
