package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
)

const (
	// DefaultMaxEntries caps the entries returned by ParseLog.
	DefaultMaxEntries = 20
	// DefaultTail is how many trailing log lines are considered.
	DefaultTail = 100
)

const (
	patientKey = "| Paciente:"
	arrow      = "→"
)

// Entry is one organized document as recorded in the log.
type Entry struct {
	Timestamp string
	Patient   string
	Path      string
}

// ParseLog reads tab-separated log records from r and returns organize
// records found in the last tail lines, newest first, at most maxEntries.
// Lines that do not look like organize records are skipped.
func ParseLog(r io.Reader, maxEntries, tail int) ([]Entry, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if tail <= 0 {
		tail = DefaultTail
	}

	lines := make([]string, 0, tail)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(lines) == tail {
			lines = lines[1:]
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	var entries []Entry
	for i := len(lines) - 1; i >= 0 && len(entries) < maxEntries; i-- {
		if e, ok := parseLine(lines[i]); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func parseLine(line string) (Entry, bool) {
	if !strings.Contains(line, "Paciente:") || !strings.Contains(line, arrow) {
		return Entry{}, false
	}
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return Entry{}, false
	}
	var msg string
	for _, f := range fields[1:] {
		if strings.Contains(f, patientKey) && strings.Contains(f, arrow) {
			msg = f
			break
		}
	}
	if msg == "" {
		return Entry{}, false
	}

	// The PDF name before the arrow may itself contain an arrow, so the
	// folder is whatever follows the last one.
	head, afterPatient, _ := strings.Cut(msg, patientKey)
	patient, _, _ := strings.Cut(afterPatient, "|")
	i := strings.LastIndex(head, arrow)
	if i < 0 {
		return Entry{}, false
	}
	path := head[i+len(arrow):]

	e := Entry{
		Timestamp: strings.TrimSpace(fields[0]),
		Patient:   strings.TrimSpace(patient),
		Path:      strings.TrimSpace(path),
	}
	if e.Patient == "" || e.Path == "" {
		return Entry{}, false
	}
	return e, true
}

// ReadLogFiles parses paths as one log, oldest file first. Missing files are
// skipped, so a fresh install returns no entries.
func ReadLogFiles(fsys afero.Fs, paths []string, maxEntries, tail int) ([]Entry, error) {
	readers := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		f, err := fsys.Open(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("opening %s: %w", p, err)
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return ParseLog(io.MultiReader(readers...), maxEntries, tail)
}
