package encryption

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"terapias-go/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()

	tests := []struct {
		name    string
		cfg     config.BackupConfig
		wantNil bool
		wantErr bool
	}{
		{name: "none", cfg: config.BackupConfig{Encryption: "none"}, wantNil: true},
		{name: "empty", cfg: config.BackupConfig{}, wantNil: true},
		{name: "age", cfg: config.BackupConfig{Encryption: "age", PublicKeyPath: "/k.pub", PrivateKeyPath: "/k.key"}},
		{name: "age without keys", cfg: config.BackupConfig{Encryption: "age"}, wantErr: true},
		{name: "test", cfg: config.BackupConfig{Encryption: "test"}},
		{name: "unknown", cfg: config.BackupConfig{Encryption: "rot13"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncryptorFromConfig(fsys, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncryptorFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (enc == nil) != tt.wantNil {
				t.Errorf("NewEncryptorFromConfig() = %v, wantNil %v", enc, tt.wantNil)
			}
		})
	}
}

func TestTestEncryptor(t *testing.T) {
	e := NewTestEncryptor()
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false")
	}

	var sealed bytes.Buffer
	if err := e.Encrypt(strings.NewReader("informe"), &sealed); err != nil {
		t.Fatal(err)
	}
	if sealed.String() == "informe" {
		t.Error("sealed output equals plaintext")
	}

	if err := e.Setup("clave"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Unlock("otra"); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Unlock() error = %v, want ErrWrongPassphrase", err)
	}
	dc, err := e.Unlock("clave")
	if err != nil {
		t.Fatal(err)
	}
	var opened bytes.Buffer
	if err := dc.Decrypt(&sealed, &opened); err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if opened.String() != "informe" {
		t.Errorf("Decrypt() = %q", opened.String())
	}
	if err := dc.Decrypt(strings.NewReader("plain text here!!"), &opened); err == nil {
		t.Error("Decrypt() of unsealed data expected error")
	}
}
