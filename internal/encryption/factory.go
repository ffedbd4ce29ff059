package encryption

import (
	"fmt"

	"github.com/spf13/afero"

	"terapias-go/internal/config"
	"terapias-go/internal/organizer"
)

// NewEncryptorFromConfig creates the Encryptor for cfg.Encryption.
// "none" (or empty) returns a nil Encryptor: backups are stored as plain copies.
func NewEncryptorFromConfig(fsys afero.Fs, cfg config.BackupConfig) (organizer.Encryptor, error) {
	switch cfg.Encryption {
	case "none", "":
		return nil, nil
	case "age":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(fsys, cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Encryption)
	}
}
