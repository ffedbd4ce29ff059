package convert

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"terapias-go/internal/config"
	"terapias-go/internal/organizer"
)

// runFunc runs an external command and returns its combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// SofficeConverter exports documents with LibreOffice in headless mode.
// The PDF is written to a scratch folder beside the target and renamed into
// place, so a failed export never leaves a partial PDF.
type SofficeConverter struct {
	fs         afero.Fs
	executable string
	timeout    time.Duration
	logger     organizer.Logger
	run        runFunc
}

var _ organizer.Converter = (*SofficeConverter)(nil)

// NewSofficeConverter creates a SofficeConverter. A non-positive timeout means none.
func NewSofficeConverter(fsys afero.Fs, executable string, timeout time.Duration, logger organizer.Logger) *SofficeConverter {
	return &SofficeConverter{fs: fsys, executable: executable, timeout: timeout, logger: logger, run: execRun}
}

func (c *SofficeConverter) Convert(ctx context.Context, docPath, pdfPath string) bool {
	if c.executable == "" {
		c.logger.Error("pdf conversion unavailable: no LibreOffice executable found")
		return false
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	outDir, err := afero.TempDir(c.fs, filepath.Dir(pdfPath), ".pdf-")
	if err != nil {
		c.logger.Error("pdf conversion failed", "doc", docPath, "error", fmt.Errorf("creating scratch folder: %w", err))
		return false
	}
	defer c.fs.RemoveAll(outDir)

	out, err := c.run(ctx, c.executable, "--headless", "--convert-to", "pdf", "--outdir", outDir, docPath)
	if err != nil {
		c.logger.Error("pdf conversion failed", "doc", docPath, "error", err, "output", strings.TrimSpace(string(out)))
		return false
	}

	stem := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	produced := filepath.Join(outDir, stem+".pdf")
	if ok, _ := afero.Exists(c.fs, produced); !ok {
		c.logger.Error("pdf conversion produced no file", "doc", docPath, "output", strings.TrimSpace(string(out)))
		return false
	}
	if err := c.fs.Rename(produced, pdfPath); err != nil {
		c.logger.Error("pdf conversion failed", "doc", docPath, "error", fmt.Errorf("placing pdf: %w", err))
		return false
	}
	c.logger.Info("pdf created", "doc", docPath, "pdf", pdfPath)
	return true
}

// ManualConverter expects the operator to export the PDF from the editor.
// It succeeds when the PDF is already there.
type ManualConverter struct {
	fs afero.Fs
}

var _ organizer.Converter = (*ManualConverter)(nil)

func NewManualConverter(fsys afero.Fs) *ManualConverter {
	return &ManualConverter{fs: fsys}
}

func (c *ManualConverter) Convert(_ context.Context, _, pdfPath string) bool {
	ok, err := afero.Exists(c.fs, pdfPath)
	return err == nil && ok
}

// NoneConverter never converts.
type NoneConverter struct{}

func (NoneConverter) Convert(context.Context, string, string) bool { return false }

// NewConverterFromConfig creates the Converter for cfg.Type. wordPath is the
// optional executable configured under [folders].
func NewConverterFromConfig(fsys afero.Fs, cfg config.ConverterConfig, wordPath string, logger organizer.Logger) (organizer.Converter, error) {
	switch cfg.Type {
	case "soffice", "":
		exe := FindExecutable(soffice(wordPath), SofficeCandidates())
		return NewSofficeConverter(fsys, exe, cfg.Timeout.Duration, logger), nil
	case "manual":
		return NewManualConverter(fsys), nil
	case "none":
		return NoneConverter{}, nil
	default:
		return nil, fmt.Errorf("unknown converter type: %q", cfg.Type)
	}
}

// soffice returns wordPath when it names a LibreOffice binary, since a
// configured Word executable cannot convert headless.
func soffice(wordPath string) string {
	base := strings.ToLower(filepath.Base(wordPath))
	if strings.Contains(base, "soffice") || strings.Contains(base, "libreoffice") {
		return wordPath
	}
	return ""
}
