package encryption

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"terapias-go/internal/config"
)

func newTestAgeEncryptor(t *testing.T) (*AgeEncryptor, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	cfg := config.BackupConfig{
		Encryption:     "age",
		PublicKeyPath:  filepath.Join("/keys", "terapias.pub"),
		PrivateKeyPath: filepath.Join("/keys", "terapias.key"),
	}
	return NewAgeEncryptor(fsys, cfg), fsys
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Parallel()
	e, fsys := newTestAgeEncryptor(t)

	if e.IsConfigured() {
		t.Fatal("IsConfigured() = true before Setup")
	}
	if err := e.Setup("clave-larga"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false after Setup")
	}

	pub, err := e.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() error = %v", err)
	}
	if !strings.HasPrefix(pub, "age1") {
		t.Errorf("PublicKey() = %q, want age1 prefix", pub)
	}

	priv, err := afero.ReadFile(fsys, "/keys/terapias.key")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(priv, []byte("AGE-SECRET-KEY")) {
		t.Error("private key is stored unsealed")
	}
}

func TestAgeEncryptor_SetupRefusesExistingKeys(t *testing.T) {
	t.Parallel()
	e, _ := newTestAgeEncryptor(t)
	if err := e.Setup("clave"); err != nil {
		t.Fatal(err)
	}
	before, _ := e.PublicKey()

	if err := e.Setup("otra"); !errors.Is(err, ErrKeysExist) {
		t.Errorf("second Setup() error = %v, want ErrKeysExist", err)
	}
	after, _ := e.PublicKey()
	if before != after {
		t.Error("second Setup() replaced the public key")
	}
}

func TestAgeEncryptor_SetupEmptyPassphrase(t *testing.T) {
	t.Parallel()
	e, _ := newTestAgeEncryptor(t)
	if err := e.Setup(""); err == nil {
		t.Error("Setup(\"\") expected error")
	}
}

func TestAgeEncryptor_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "document", input: []byte("PK\x03\x04 informe de sesión")},
		{name: "empty", input: []byte{}},
		{name: "large", input: bytes.Repeat([]byte("terapia "), 20000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, _ := newTestAgeEncryptor(t)
			if err := e.Setup("clave"); err != nil {
				t.Fatalf("Setup() error = %v", err)
			}

			var sealed bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &sealed); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(tt.input) > 0 && bytes.Contains(sealed.Bytes(), tt.input) {
				t.Error("sealed output contains the plaintext")
			}

			dc, err := e.Unlock("clave")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			var opened bytes.Buffer
			if err := dc.Decrypt(&sealed, &opened); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(opened.Bytes(), tt.input) {
				t.Errorf("round trip: got %d bytes, want %d", opened.Len(), len(tt.input))
			}
		})
	}
}

func TestAgeEncryptor_Errors(t *testing.T) {
	t.Parallel()

	t.Run("wrong passphrase", func(t *testing.T) {
		t.Parallel()
		e, _ := newTestAgeEncryptor(t)
		if err := e.Setup("correcta"); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Unlock("incorrecta"); err == nil {
			t.Error("Unlock() with wrong passphrase expected error")
		}
	})

	t.Run("encrypt before setup", func(t *testing.T) {
		t.Parallel()
		e, _ := newTestAgeEncryptor(t)
		var buf bytes.Buffer
		if err := e.Encrypt(strings.NewReader("x"), &buf); err == nil {
			t.Error("Encrypt() before Setup expected error")
		}
	})

	t.Run("unlock before setup", func(t *testing.T) {
		t.Parallel()
		e, _ := newTestAgeEncryptor(t)
		if _, err := e.Unlock("clave"); err == nil {
			t.Error("Unlock() before Setup expected error")
		}
	})
}
