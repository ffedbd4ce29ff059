package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"terapias-go/internal/backup"
	"terapias-go/internal/config"
	"terapias-go/internal/convert"
	"terapias-go/internal/encryption"
	"terapias-go/internal/fs"
	"terapias-go/internal/history"
	"terapias-go/internal/organizer"
	"terapias-go/internal/pending"
)

// TerapiasApp is the application layer between the CLI and OrganizerService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and closes the operation log on Close.
type TerapiasApp struct {
	cfg       *config.Config
	fs        afero.Fs
	service   *organizer.OrganizerService
	archiver  *backup.Archiver
	encryptor organizer.Encryptor
	editor    organizer.Editor
	logger    organizer.Logger
	op        *Operation
	logFile   *os.File
}

// Options overrides collaborators that are normally built from config.
// Zero fields keep the defaults.
type Options struct {
	Stderr    io.Writer
	Editor    organizer.Editor
	Converter organizer.Converter
	Sleeper   organizer.Sleeper
}

// NewTerapiasApp creates a fully wired TerapiasApp from the given config.
// operation identifies the CLI command being run (e.g. "Organize", "Finish").
// The caller must call Close when done.
func NewTerapiasApp(cfg *config.Config, operation, parameters string, opts Options) (*TerapiasApp, error) {
	defaults, err := GetDefaults()
	if err != nil {
		return nil, err
	}
	logDir := cfg.Log.Dir
	if logDir == "" {
		logDir = defaults["log_dir"]
	}
	pendingCfg := cfg.Pending
	if pendingCfg.Dir == "" {
		pendingCfg.Dir = defaults["state_dir"]
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Sleeper == nil {
		opts.Sleeper = organizer.RealSleeper{}
	}

	op := NewOperation(operation, parameters)
	slogger, logFile, err := newLogger(logDir, cfg.Log.MaxBytes, op.ID, opts.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	fail := func(err error) (*TerapiasApp, error) {
		logFile.Close()
		return nil, err
	}

	osfs := afero.NewOsFs()
	mover := organizer.NewMover(osfs, organizer.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Delay:       cfg.Retry.Delay.Duration,
	}, opts.Sleeper, logger)

	enc, err := encryption.NewEncryptorFromConfig(osfs, cfg.Backup)
	if err != nil {
		return fail(fmt.Errorf("creating encryptor: %w", err))
	}

	archiver, err := backup.NewArchiver(osfs, cfg.Folders.Backup, mover, enc, organizer.RealClock{}, logger)
	if err != nil {
		return fail(fmt.Errorf("creating backup archiver: %w", err))
	}

	conv := opts.Converter
	if conv == nil {
		conv, err = convert.NewConverterFromConfig(osfs, cfg.Converter, cfg.Folders.WordPath, logger)
		if err != nil {
			return fail(fmt.Errorf("creating converter: %w", err))
		}
	}

	editor := opts.Editor
	if editor == nil {
		editor = convert.NewExecEditor(convert.FindExecutable(cfg.Folders.WordPath, convert.EditorCandidates()), logger)
	}

	store, err := pending.NewStoreFromConfig(pendingCfg)
	if err != nil {
		return fail(fmt.Errorf("creating pending store: %w", err))
	}

	lister := fs.NewDocumentFinder(osfs, cfg.Organize.Extensions, cfg.Organize.Ignore, cfg.Organize.MaxListed)
	settings := organizer.Settings{
		Folders: organizer.Folders{
			Source:      cfg.Folders.Source,
			Destination: cfg.Folders.Destination,
			Backup:      cfg.Folders.Backup,
		},
		Marker:             cfg.Organize.Marker,
		Extensions:         cfg.Organize.Extensions,
		MaxPathLen:         cfg.Organize.MaxPathLen,
		MaxCollisionSuffix: cfg.Organize.MaxCollisionSuffix,
	}
	svc := organizer.NewOrganizerService(osfs, settings, lister, mover, archiver, conv, store, logger, organizer.RealClock{}, organizer.UUIDGenerator{})

	logger.Debug("operation started", "operation", op.Name, "parameters", op.Parameters)
	cfgCopy := *cfg
	cfgCopy.Log.Dir = logDir
	cfgCopy.Pending = pendingCfg
	return &TerapiasApp{
		cfg:       &cfgCopy,
		fs:        osfs,
		service:   svc,
		archiver:  archiver,
		encryptor: enc,
		editor:    editor,
		logger:    logger,
		op:        op,
		logFile:   logFile,
	}, nil
}

// ListDocuments returns candidate documents in folder (the source folder when empty).
func (a *TerapiasApp) ListDocuments(folder string) ([]organizer.Document, error) {
	if folder != "" {
		abs, err := filepath.Abs(folder)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		folder = abs
	}
	docs, err := a.service.ListDocuments(folder)
	return docs, a.op.Track(err)
}

func (a *TerapiasApp) request(rawPath, name string, allowUnknown bool) (organizer.OrganizeRequest, error) {
	abs, err := filepath.Abs(rawPath)
	if err != nil {
		return organizer.OrganizeRequest{}, fmt.Errorf("resolving path: %w", err)
	}
	return organizer.OrganizeRequest{SourcePath: abs, Name: name, AllowUnknownPatient: allowUnknown}, nil
}

// Plan previews where rawPath would be placed under name.
func (a *TerapiasApp) Plan(rawPath, name string, allowUnknown bool) (*organizer.Placement, error) {
	req, err := a.request(rawPath, name, allowUnknown)
	if err != nil {
		return nil, err
	}
	return a.service.Plan(req)
}

// Organize places rawPath under name and records it as awaiting conversion.
func (a *TerapiasApp) Organize(ctx context.Context, rawPath, name string, allowUnknown bool) (*organizer.Placement, error) {
	req, err := a.request(rawPath, name, allowUnknown)
	if err != nil {
		return nil, a.op.Track(err)
	}
	p, err := a.service.Organize(ctx, req)
	return p, a.op.Track(err)
}

// OpenInEditor hands path to the word processor. A failure leaves the
// placement as it is.
func (a *TerapiasApp) OpenInEditor(ctx context.Context, path string) error {
	if err := a.editor.Open(ctx, path); err != nil {
		a.logger.Warn("could not open editor", "doc", path, "error", err)
		return err
	}
	return nil
}

// Finish converts the pending document and backs up the original.
func (a *TerapiasApp) Finish(ctx context.Context) (*organizer.FinishResult, error) {
	res, err := a.service.Finish(ctx)
	return res, a.op.Track(err)
}

// Cancel releases the pending document without touching files.
func (a *TerapiasApp) Cancel(ctx context.Context) (*organizer.Pending, error) {
	p, err := a.service.Cancel(ctx)
	return p, a.op.Track(err)
}

// Pending returns the document awaiting conversion, or nil.
func (a *TerapiasApp) Pending(ctx context.Context) (*organizer.Pending, error) {
	return a.service.Pending(ctx)
}

// History returns up to limit recent organize records from the log.
func (a *TerapiasApp) History(limit int) ([]history.Entry, error) {
	return history.ReadLogFiles(a.fs, LogFiles(a.cfg.Log.Dir), limit, history.DefaultTail)
}

// SearchPatients finds patient folders under the destination whose name contains query.
func (a *TerapiasApp) SearchPatients(ctx context.Context, query string, limit int) ([]history.Match, error) {
	return history.SearchPatients(ctx, a.fs, a.cfg.Folders.Destination, query, limit)
}

// Check is one line of the doctor report.
type Check struct {
	Name     string
	Target   string
	OK       bool
	Optional bool
	Detail   string
}

// Doctor checks folders, external tools and backup keys.
func (a *TerapiasApp) Doctor() []Check {
	var checks []Check

	folders := []struct{ name, path string }{
		{"Source folder", a.cfg.Folders.Source},
		{"Destination folder", a.cfg.Folders.Destination},
	}
	for _, f := range folders {
		c := Check{Name: f.name, Target: f.path}
		if ok, err := afero.DirExists(a.fs, f.path); err != nil {
			c.Detail = err.Error()
		} else if !ok {
			c.Detail = "does not exist"
		} else {
			c.OK = true
		}
		checks = append(checks, c)
	}

	bc := Check{Name: "Backup folder", Target: a.cfg.Folders.Backup, OK: true}
	if err := a.archiver.ValidateSetup(); err != nil {
		bc.OK = false
		bc.Detail = err.Error()
	}
	checks = append(checks, bc)

	for _, s := range convert.CheckTools(*a.cfg) {
		checks = append(checks, Check{Name: s.Name, Target: s.Command, OK: s.Available, Optional: s.Optional, Detail: s.Detail})
	}

	kc := Check{Name: "Backup encryption", Target: a.cfg.Backup.Encryption, Optional: a.encryptor == nil, OK: true}
	if a.encryptor != nil && !a.encryptor.IsConfigured() {
		kc.OK = false
		kc.Detail = "keys missing; run 'terapias keys init'"
	}
	checks = append(checks, kc)

	return checks
}

// SetupKeys creates the age key pair used for sealed backups and returns
// the public key.
func (a *TerapiasApp) SetupKeys(passphrase string) (string, error) {
	enc := encryption.NewAgeEncryptor(a.fs, a.cfg.Backup)
	if err := a.op.Track(enc.Setup(passphrase)); err != nil {
		return "", err
	}
	a.logger.Info("backup keys created", "public_key", a.cfg.Backup.PublicKeyPath)
	return enc.PublicKey()
}

// OpenBackup decrypts a sealed backup into out (next to it when empty) and
// returns the written path.
func (a *TerapiasApp) OpenBackup(sealed, out, passphrase string) (string, error) {
	sealed, err := filepath.Abs(sealed)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	if out == "" {
		out = backup.OpenedName(sealed)
	}
	if out == sealed {
		return "", a.op.Track(errors.New("sealed backups must end in " + backup.SealedExt))
	}

	enc := a.encryptor
	if enc == nil {
		enc = encryption.NewAgeEncryptor(a.fs, a.cfg.Backup)
	}
	dc, err := enc.Unlock(passphrase)
	if err != nil {
		return "", a.op.Track(err)
	}
	if err := a.archiver.Open(sealed, out, dc); err != nil {
		return "", a.op.Track(err)
	}
	a.logger.Info("sealed backup opened", "sealed", sealed, "out", out)
	return out, nil
}

// Close records the outcome of the operation and closes the log.
func (a *TerapiasApp) Close() error {
	a.logger.Debug("operation finished", "operation", a.op.Name, "status", a.op.Status,
		"duration", time.Since(a.op.StartedAt).Truncate(time.Millisecond))
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
