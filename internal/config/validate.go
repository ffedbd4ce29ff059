package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FieldError describes one invalid setting.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every problem found in a Config.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = fmt.Sprintf("%s: %s", p.Field, p.Message)
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate ensures the configuration is usable. The three folders must be
// set, pairwise distinct and must not name an existing plain file.
func (c *Config) Validate() error {
	verr := &ValidationError{}
	c.validateFolders(verr)
	c.validateOrganize(verr)
	c.validateConverter(verr)
	c.validateBackup(verr)
	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func (c *Config) validateFolders(verr *ValidationError) {
	folders := []struct {
		field string
		path  string
	}{
		{"folders.source", c.Folders.Source},
		{"folders.destination", c.Folders.Destination},
		{"folders.backup", c.Folders.Backup},
	}

	seen := make(map[string]string)
	for _, f := range folders {
		p := strings.TrimSpace(f.path)
		if p == "" {
			verr.add(f.field, "must be set")
			continue
		}
		clean := filepath.Clean(p)
		if other, ok := seen[clean]; ok {
			verr.add(f.field, "must differ from %s", other)
		} else {
			seen[clean] = f.field
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			verr.add(f.field, "%s is a file, not a folder", p)
		}
	}
}

func (c *Config) validateOrganize(verr *ValidationError) {
	if strings.TrimSpace(c.Organize.Marker) == "" {
		verr.add("organize.marker", "must be set")
	}
	if strings.ContainsAny(c.Organize.Marker, " \t") {
		verr.add("organize.marker", "must be a single word")
	}
	for _, ext := range c.Organize.Extensions {
		if !strings.HasPrefix(ext, ".") {
			verr.add("organize.extensions", "%q must start with a dot", ext)
		}
	}
	if c.Retry.MaxAttempts < 1 {
		verr.add("retry.max_attempts", "must be at least 1")
	}
}

func (c *Config) validateConverter(verr *ValidationError) {
	switch c.Converter.Type {
	case "soffice", "manual", "none":
	default:
		verr.add("converter.type", "unknown converter %q", c.Converter.Type)
	}
}

func (c *Config) validateBackup(verr *ValidationError) {
	switch c.Backup.Encryption {
	case "none", "test":
	case "age":
		if c.Backup.PublicKeyPath == "" || c.Backup.PrivateKeyPath == "" {
			verr.add("backup", "public_key_path and private_key_path are required for age encryption")
		}
	default:
		verr.add("backup.encryption", "unknown encryption %q", c.Backup.Encryption)
	}
}
