package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxResults caps SearchPatients.
const DefaultMaxResults = 100

// searchWorkers bounds how many year folders are scanned at once.
const searchWorkers = 4

// Match is a patient folder found under the destination tree.
type Match struct {
	Patient string
	Path    string
	// Date is "year/month/day" using the folder names.
	Date string
}

// SearchPatients walks base/<year>/<month>/<day>/<patient> and returns patient
// folders whose name contains query, case-insensitively. Results are in
// folder-name order and capped at limit. An empty query matches nothing.
func SearchPatients(ctx context.Context, fsys afero.Fs, base, query string, limit int) ([]Match, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	years, err := subdirs(fsys, base)
	if err != nil {
		return nil, err
	}

	perYear := make([][]Match, len(years))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(searchWorkers)
	for i, year := range years {
		g.Go(func() error {
			matches, err := searchYear(ctx, fsys, base, year, query, limit)
			if err != nil {
				return err
			}
			perYear[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []Match
	for _, matches := range perYear {
		for _, m := range matches {
			if len(results) >= limit {
				return results, nil
			}
			results = append(results, m)
		}
	}
	return results, nil
}

func searchYear(ctx context.Context, fsys afero.Fs, base, year, query string, limit int) ([]Match, error) {
	var matches []Match
	yearPath := filepath.Join(base, year)
	months, err := subdirs(fsys, yearPath)
	if err != nil {
		return nil, err
	}
	for _, month := range months {
		days, err := subdirs(fsys, filepath.Join(yearPath, month))
		if err != nil {
			return nil, err
		}
		for _, day := range days {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			dayPath := filepath.Join(yearPath, month, day)
			patients, err := subdirs(fsys, dayPath)
			if err != nil {
				return nil, err
			}
			for _, patient := range patients {
				if !strings.Contains(strings.ToLower(patient), query) {
					continue
				}
				matches = append(matches, Match{
					Patient: patient,
					Path:    filepath.Join(dayPath, patient),
					Date:    fmt.Sprintf("%s/%s/%s", year, month, day),
				})
				if len(matches) >= limit {
					return matches, nil
				}
			}
		}
	}
	return matches, nil
}

// subdirs returns the sorted names of directories directly under dir.
// A missing dir has none.
func subdirs(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
