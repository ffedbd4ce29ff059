package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"terapias-go/internal/organizer"
)

// SealedExt is appended to backups written through an Encryptor.
const SealedExt = ".age"

// timestampLayout is inserted between stem and extension of every backup.
const timestampLayout = "20060102_150405"

// Archiver moves finished originals into the backup folder, optionally
// sealing them on the way.
//
// Directory structure:
//
//	<dir>/
//	  <stem>_<YYYYMMDD_HHMMSS><ext>       (plain copies)
//	  <stem>_<YYYYMMDD_HHMMSS><ext>.age   (sealed copies)
type Archiver struct {
	fs     afero.Fs
	dir    string
	mover  *organizer.Mover
	enc    organizer.Encryptor
	clock  organizer.Clock
	logger organizer.Logger
}

var _ organizer.Archiver = (*Archiver)(nil)

// NewArchiver creates the backup folder if needed. A nil enc stores plain copies.
func NewArchiver(fsys afero.Fs, dir string, mover *organizer.Mover, enc organizer.Encryptor, clock organizer.Clock, logger organizer.Logger) (*Archiver, error) {
	if dir == "" {
		return nil, errors.New("backup folder is not configured")
	}
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup folder: %w", err)
	}
	return &Archiver{fs: fsys, dir: dir, mover: mover, enc: enc, clock: clock, logger: logger}, nil
}

// BackupName inserts a timestamp before the extension: informe.docx becomes
// informe_20260128_103000.docx.
func BackupName(base string, now time.Time) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", stem, now.Format(timestampLayout), ext)
}

// Archive moves src into the backup folder and returns the new path.
// src is removed only once its backup is complete.
func (a *Archiver) Archive(ctx context.Context, src string) (string, error) {
	exists, err := afero.Exists(a.fs, src)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", src, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", organizer.ErrDocumentMissing, src)
	}

	name := BackupName(filepath.Base(src), a.clock.Now())
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if a.enc != nil {
		ext += SealedExt
	}
	dst, err := organizer.ResolveCollision(a.fs, a.dir, stem, ext, 0)
	if err != nil {
		return "", err
	}

	if a.enc == nil {
		if _, err := a.mover.Move(ctx, src, dst); err != nil {
			return "", err
		}
	} else {
		if !a.enc.IsConfigured() {
			return "", errors.New("backup encryption is enabled but no keys exist; run 'terapias keys init'")
		}
		if _, err := a.mover.Retry(ctx, src, dst, func() error { return a.sealOnce(src, dst) }); err != nil {
			return "", err
		}
	}

	a.logger.Info("original backed up", "src", src, "dst", dst, "sealed", a.enc != nil)
	return dst, nil
}

// sealOnce encrypts src into a temp file next to dst, renames it into place
// and removes src. On any failure src is left as it was.
func (a *Archiver) sealOnce(src, dst string) error {
	in, err := a.fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp, err := afero.TempFile(a.fs, a.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			a.fs.Remove(tmpPath)
		}
	}()

	if err := a.enc.Encrypt(in, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("sealing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	in.Close()

	if err := a.fs.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true

	if err := a.fs.Remove(src); err != nil {
		if rmErr := a.fs.Remove(dst); rmErr != nil {
			a.logger.Error("could not undo sealed copy", "dst", dst, "error", rmErr)
		}
		return fmt.Errorf("removing source: %w", err)
	}
	return nil
}

// OpenedName is the default output path for a sealed backup: the same path
// without the .age suffix.
func OpenedName(sealed string) string {
	return strings.TrimSuffix(sealed, SealedExt)
}

// Open decrypts a sealed backup into out. It never overwrites out.
func (a *Archiver) Open(sealed, out string, dc organizer.DecryptionContext) error {
	exists, err := afero.Exists(a.fs, out)
	if err != nil {
		return fmt.Errorf("checking %s: %w", out, err)
	}
	if exists {
		return fmt.Errorf("output already exists: %s", out)
	}

	in, err := a.fs.Open(sealed)
	if err != nil {
		return fmt.Errorf("opening sealed backup: %w", err)
	}
	defer in.Close()

	tmp, err := afero.TempFile(a.fs, filepath.Dir(out), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			a.fs.Remove(tmpPath)
		}
	}()

	if err := dc.Decrypt(in, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := a.fs.Rename(tmpPath, out); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true
	return nil
}

// ValidateSetup verifies that the backup folder is a writable directory.
func (a *Archiver) ValidateSetup() error {
	info, err := a.fs.Stat(a.dir)
	if err != nil {
		return fmt.Errorf("backup folder not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backup folder is not a directory: %s", a.dir)
	}

	probe, err := afero.TempFile(a.fs, a.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("backup folder not writable: %w", err)
	}
	name := probe.Name()
	if _, err := io.WriteString(probe, "ok"); err != nil {
		probe.Close()
		a.fs.Remove(name)
		return fmt.Errorf("backup folder not writable: %w", err)
	}
	probe.Close()
	return a.fs.Remove(name)
}
