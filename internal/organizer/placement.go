package organizer

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// DefaultMaxPathLen is the historical Windows path-length ceiling.
const DefaultMaxPathLen = 250

// DefaultMaxCollisionSuffix bounds the numeric suffix tried by ResolveCollision.
const DefaultMaxCollisionSuffix = 9999

// ResolveCollision returns the first path folder/stem[_N]ext that does not
// exist, trying N = 0 (no suffix), 1, 2, ... up to maxSuffix.
// A non-positive maxSuffix uses DefaultMaxCollisionSuffix.
func ResolveCollision(fsys afero.Fs, folder, stem, ext string, maxSuffix int) (string, error) {
	name, err := ResolveStem(fsys, folder, stem, []string{ext}, maxSuffix)
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, name+ext), nil
}

// ResolveStem returns the first stem[_N] for which folder/stem[_N]ext is free
// for every ext in exts, so files sharing a stem (a document and its PDF)
// never land on an earlier pair. The suffix search is bounded like
// ResolveCollision.
func ResolveStem(fsys afero.Fs, folder, stem string, exts []string, maxSuffix int) (string, error) {
	if maxSuffix <= 0 {
		maxSuffix = DefaultMaxCollisionSuffix
	}
	for n := 0; n <= maxSuffix; n++ {
		name := stem
		if n > 0 {
			name = fmt.Sprintf("%s_%d", stem, n)
		}
		free := true
		for _, ext := range exts {
			candidate := filepath.Join(folder, name+ext)
			exists, err := afero.Exists(fsys, candidate)
			if err != nil {
				return "", fmt.Errorf("checking %s: %w", candidate, err)
			}
			if exists {
				free = false
				break
			}
		}
		if free {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s%v in %s", ErrCollisionLimit, stem, exts, folder)
}

// CheckPathLength reports whether path has at most maxLen characters.
func CheckPathLength(path string, maxLen int) bool {
	return utf8.RuneCountInString(path) <= maxLen
}

// EnsureFolders creates every directory in dirs, ignoring ones that already exist.
func EnsureFolders(fsys afero.Fs, dirs ...string) error {
	for _, dir := range dirs {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating folder %s: %w", dir, err)
		}
	}
	return nil
}
