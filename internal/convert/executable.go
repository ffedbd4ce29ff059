package convert

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EditorCandidates lists the word processors tried, in order, when no
// executable is configured.
func EditorCandidates() []string {
	switch runtime.GOOS {
	case "windows":
		return append(wordPaths(), sofficePaths()...)
	default:
		return sofficePaths()
	}
}

// SofficeCandidates lists LibreOffice executables able to convert headless.
func SofficeCandidates() []string {
	return sofficePaths()
}

func wordPaths() []string {
	programFiles := envOr("ProgramFiles", `C:\Program Files`)
	programFilesX86 := envOr("ProgramFiles(x86)", `C:\Program Files (x86)`)
	return []string{
		"winword.exe",
		filepath.Join(programFiles, "Microsoft Office", "root", "Office16", "WINWORD.EXE"),
		filepath.Join(programFilesX86, "Microsoft Office", "root", "Office16", "WINWORD.EXE"),
		filepath.Join(programFiles, "Microsoft Office", "Office16", "WINWORD.EXE"),
		filepath.Join(programFilesX86, "Microsoft Office", "Office16", "WINWORD.EXE"),
	}
}

func sofficePaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"soffice.exe",
			filepath.Join(envOr("ProgramFiles", `C:\Program Files`), "LibreOffice", "program", "soffice.exe"),
		}
	case "darwin":
		return []string{"soffice", "/Applications/LibreOffice.app/Contents/MacOS/soffice"}
	default:
		return []string{"soffice", "libreoffice", "lowriter"}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// FindExecutable returns the first usable executable: configured first, then
// candidates. Absolute paths must name an existing regular file; bare names
// are looked up on PATH. Returns "" when nothing is found.
func FindExecutable(configured string, candidates []string) string {
	all := candidates
	if c := strings.TrimSpace(configured); c != "" {
		all = append([]string{c}, candidates...)
	}
	for _, name := range all {
		if filepath.IsAbs(name) {
			if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
				return name
			}
			continue
		}
		if found, err := exec.LookPath(name); err == nil {
			return found
		}
	}
	return ""
}

// openerCommand returns the platform command that opens path with its
// associated application.
func openerCommand(path string) (string, []string) {
	switch runtime.GOOS {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}
