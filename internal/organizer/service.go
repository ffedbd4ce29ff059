package organizer

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Folders are the configured locations for one run.
type Folders struct {
	Source      string
	Destination string
	Backup      string
}

// Settings is the configuration value an OrganizerService works with.
// It is fixed for the lifetime of the service; reloading config means
// building a new service.
type Settings struct {
	Folders            Folders
	Marker             string
	Extensions         []string
	MaxPathLen         int
	MaxCollisionSuffix int
	MonthNames         map[int]string
}

// OrganizeRequest is what the operator chose in phase 1.
type OrganizeRequest struct {
	SourcePath string
	// Name is the raw text typed by the operator.
	Name string
	// AllowUnknownPatient accepts UnknownPatient as the patient folder.
	AllowUnknownPatient bool
}

// Placement describes where a document goes (Plan) or went (Organize).
type Placement struct {
	SourcePath    string
	Name          string
	Patient       string
	Extension     string
	Dates         DatePath
	PatientFolder string
	DocPath       string
	PDFPath       string
	Attempts      int
}

// FinishResult describes a completed phase 2.
type FinishResult struct {
	Pending    Pending
	BackupPath string
}

// OrganizerService coordinates naming, placement, moves and the two-phase
// workflow state.
type OrganizerService struct {
	fs        afero.Fs
	settings  Settings
	lister    DocumentLister
	mover     *Mover
	archiver  Archiver
	converter Converter
	store     PendingStore
	logger    Logger
	clock     Clock
	idgen     IDGenerator
}

// NewOrganizerService creates a new OrganizerService with the provided dependencies.
func NewOrganizerService(fsys afero.Fs, settings Settings, lister DocumentLister, mover *Mover, archiver Archiver, converter Converter, store PendingStore, logger Logger, clock Clock, idgen IDGenerator) *OrganizerService {
	if settings.Marker == "" {
		settings.Marker = DefaultMarker
	}
	if len(settings.Extensions) == 0 {
		settings.Extensions = []string{".doc", ".docx"}
	}
	exts := make([]string, len(settings.Extensions))
	for i, ext := range settings.Extensions {
		exts[i] = strings.ToLower(ext)
	}
	settings.Extensions = exts
	if settings.MaxPathLen <= 0 {
		settings.MaxPathLen = DefaultMaxPathLen
	}
	if settings.MonthNames == nil {
		settings.MonthNames = MonthNames
	}
	return &OrganizerService{
		fs:        fsys,
		settings:  settings,
		lister:    lister,
		mover:     mover,
		archiver:  archiver,
		converter: converter,
		store:     store,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// ListDocuments returns candidate documents in folder, newest first.
// An empty folder argument means the configured source folder.
func (s *OrganizerService) ListDocuments(folder string) ([]Document, error) {
	if folder == "" {
		folder = s.settings.Folders.Source
	}
	docs, err := s.lister.ListDocuments(folder)
	if err != nil {
		return nil, fmt.Errorf("listing documents in %s: %w", folder, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, folder)
	}
	return docs, nil
}

// Plan validates a request and computes its placement without touching the filesystem.
func (s *OrganizerService) Plan(req OrganizeRequest) (*Placement, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	exists, err := afero.Exists(s.fs, req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("checking source: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrDocumentMissing, req.SourcePath)
	}

	name := Sanitize(req.Name)
	patient := ExtractPatient(name, s.settings.Marker)
	if patient == UnknownPatient && !req.AllowUnknownPatient {
		return nil, fmt.Errorf("%w %q: %q", ErrUnknownPatient, s.settings.Marker, name)
	}

	now := s.clock.Now()
	dates := BuildDatePath(s.settings.Folders.Destination, now.Year(), int(now.Month()), now.Day(), s.settings.MonthNames)
	patientFolder := filepath.Join(dates.Day, patient)

	ext := s.extensionFor(req.SourcePath)
	stem, err := ResolveStem(s.fs, patientFolder, name, []string{ext, ".pdf"}, s.settings.MaxCollisionSuffix)
	if err != nil {
		return nil, err
	}
	docPath := filepath.Join(patientFolder, stem+ext)
	if !CheckPathLength(docPath, s.settings.MaxPathLen) {
		return nil, fmt.Errorf("%w (%d): %s", ErrPathTooLong, s.settings.MaxPathLen, docPath)
	}

	return &Placement{
		SourcePath:    req.SourcePath,
		Name:          name,
		Patient:       patient,
		Extension:     ext,
		Dates:         dates,
		PatientFolder: patientFolder,
		DocPath:       docPath,
		PDFPath:       filepath.Join(patientFolder, stem+".pdf"),
	}, nil
}

// Organize runs phase 1: place the document in its patient folder and
// record it as awaiting conversion.
func (s *OrganizerService) Organize(ctx context.Context, req OrganizeRequest) (*Placement, error) {
	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("locking workflow state: %w", err)
	}
	defer unlock()

	state, err := s.loadState()
	if err != nil {
		return nil, err
	}
	if state.Phase() != PhaseIdle {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAwaiting, state.Pending().DocPath)
	}

	p, err := s.Plan(req)
	if err != nil {
		return nil, err
	}

	if err := EnsureFolders(s.fs, p.Dates.Year, p.Dates.Month, p.Dates.Day, p.PatientFolder, s.settings.Folders.Backup); err != nil {
		return nil, err
	}

	attempts, err := s.mover.Move(ctx, p.SourcePath, p.DocPath)
	p.Attempts = attempts
	if err != nil {
		return nil, err
	}

	next, err := state.Await(Pending{
		DocPath:       p.DocPath,
		PDFPath:       p.PDFPath,
		PatientFolder: p.PatientFolder,
		Patient:       p.Patient,
		OperationID:   s.idgen.New(),
		CreatedAt:     s.clock.Now(),
	})
	if err != nil {
		return p, err
	}
	if err := s.store.Save(next.Pending()); err != nil {
		s.logger.Error("document placed but not recorded as pending", "doc", p.DocPath, "error", err)
		return p, fmt.Errorf("saving pending state (document is at %s): %w", p.DocPath, err)
	}

	year, month, day := p.Dates.Segments()
	s.logger.Info(fmt.Sprintf("Esperado PDF: %s → %s | Paciente: %s | Fecha: %s/%s/%s",
		filepath.Base(p.PDFPath), p.PatientFolder, p.Patient, year, month, day))
	return p, nil
}

// Finish runs phase 2: convert the placed document to PDF and move the
// original into the backup folder.
func (s *OrganizerService) Finish(ctx context.Context) (*FinishResult, error) {
	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("locking workflow state: %w", err)
	}
	defer unlock()

	state, err := s.loadState()
	if err != nil {
		return nil, err
	}
	p := state.Pending()
	if p == nil {
		return nil, ErrNotAwaitingConversion
	}

	exists, err := afero.Exists(s.fs, p.DocPath)
	if err != nil {
		return nil, fmt.Errorf("checking document: %w", err)
	}
	if !exists {
		s.logger.Warn("pending document disappeared", "doc", p.DocPath)
		if err := s.store.Clear(); err != nil {
			return nil, fmt.Errorf("clearing pending state: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrDocumentMissing, p.DocPath)
	}

	if !s.converter.Convert(ctx, p.DocPath, p.PDFPath) {
		s.logger.Warn("conversion failed", "doc", p.DocPath, "pdf", p.PDFPath)
		return nil, fmt.Errorf("%w: %s", ErrConversionFailed, p.DocPath)
	}
	exists, err = afero.Exists(s.fs, p.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("checking pdf: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPDFMissing, p.PDFPath)
	}

	backupPath, err := s.archiver.Archive(ctx, p.DocPath)
	if err != nil {
		return nil, fmt.Errorf("backing up %s: %w", p.DocPath, err)
	}

	if _, err := state.Complete(); err != nil {
		return nil, err
	}
	if err := s.store.Clear(); err != nil {
		return nil, fmt.Errorf("clearing pending state: %w", err)
	}

	s.logger.Info("document finished", "patient", p.Patient, "pdf", p.PDFPath, "backup", backupPath)
	return &FinishResult{Pending: *p, BackupPath: backupPath}, nil
}

// Cancel discards any pending state without touching files.
// It returns the discarded record, or nil if nothing was pending.
func (s *OrganizerService) Cancel(ctx context.Context) (*Pending, error) {
	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("locking workflow state: %w", err)
	}
	defer unlock()

	p, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading pending state: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	if err := s.store.Clear(); err != nil {
		return nil, fmt.Errorf("clearing pending state: %w", err)
	}
	s.logger.Info("pending document released", "doc", p.DocPath)
	return p, nil
}

// Pending returns the document awaiting conversion, or nil.
func (s *OrganizerService) Pending(ctx context.Context) (*Pending, error) {
	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("locking workflow state: %w", err)
	}
	defer unlock()

	state, err := s.loadState()
	if err != nil {
		return nil, err
	}
	return state.Pending(), nil
}

func (s *OrganizerService) loadState() (State, error) {
	p, err := s.store.Load()
	if err != nil {
		return State{}, fmt.Errorf("loading pending state: %w", err)
	}
	return StateFrom(p), nil
}

// extensionFor returns the lower-cased extension of path, or ".docx" when it
// is not one of the accepted document extensions.
func (s *OrganizerService) extensionFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if slices.Contains(s.settings.Extensions, ext) {
		return ext
	}
	return ".docx"
}
