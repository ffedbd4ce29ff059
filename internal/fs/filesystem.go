package fs

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"terapias-go/internal/organizer"
)

// DocumentFinder lists intake documents on an afero filesystem.
type DocumentFinder struct {
	fs         afero.Fs
	extensions []string
	ignore     *IgnoreMatcher
	limit      int
}

// NewDocumentFinder creates a finder accepting the given extensions
// (compared case-insensitively) and skipping names matched by ignore.
// limit caps the number of results; zero or less means no cap.
func NewDocumentFinder(fsys afero.Fs, extensions []string, ignore []string, limit int) *DocumentFinder {
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		exts[i] = strings.ToLower(ext)
	}
	return &DocumentFinder{
		fs:         fsys,
		extensions: exts,
		ignore:     NewIgnoreMatcher(ignore),
		limit:      limit,
	}
}

// ListDocuments returns regular files directly inside folder with an
// accepted extension, newest modification time first. A folder that does
// not exist or is not a directory yields no documents. Entries that cannot
// be stat'ed are skipped.
func (f *DocumentFinder) ListDocuments(folder string) ([]organizer.Document, error) {
	isDir, err := afero.IsDir(f.fs, folder)
	if err != nil || !isDir {
		return nil, nil
	}

	entries, err := afero.ReadDir(f.fs, folder)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var docs []organizer.Document
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		if !slices.Contains(f.extensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		fullPath := filepath.Join(folder, entry.Name())
		if f.ignore.Match(fullPath) {
			continue
		}
		info, err := f.fs.Stat(fullPath)
		if err != nil {
			continue
		}
		docs = append(docs, organizer.Document{
			Path:    fullPath,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].ModTime.After(docs[j].ModTime)
	})
	if f.limit > 0 && len(docs) > f.limit {
		docs = docs[:f.limit]
	}
	return docs, nil
}

// Compile-time check that DocumentFinder implements organizer.DocumentLister
var _ organizer.DocumentLister = (*DocumentFinder)(nil)
