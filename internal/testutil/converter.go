package testutil

import (
	"context"
	"sync"

	"github.com/spf13/afero"
)

// FakeConverter writes a stub PDF when Succeed is true.
type FakeConverter struct {
	Fs      afero.Fs
	Succeed bool
	// SkipWrite reports success without producing the PDF.
	SkipWrite bool

	mu    sync.Mutex
	Calls []string
}

func (c *FakeConverter) Convert(_ context.Context, docPath, pdfPath string) bool {
	c.mu.Lock()
	c.Calls = append(c.Calls, docPath)
	c.mu.Unlock()
	if !c.Succeed {
		return false
	}
	if c.SkipWrite {
		return true
	}
	return afero.WriteFile(c.Fs, pdfPath, []byte("%PDF-1.7 stub"), 0644) == nil
}

// FakeEditor records the documents it was asked to open.
type FakeEditor struct {
	Err error

	mu     sync.Mutex
	Opened []string
}

func (e *FakeEditor) Open(_ context.Context, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Opened = append(e.Opened, path)
	return e.Err
}
