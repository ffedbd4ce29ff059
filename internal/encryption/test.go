package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"terapias-go/internal/organizer"
)

// ErrWrongPassphrase is returned by TestEncryptor.Unlock for a passphrase
// other than the one given to Setup.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// sealHeader marks data sealed by TestEncryptor.
var sealHeader = []byte("TERAPIAS-SEALED\n")

// TestEncryptor is a deterministic Encryptor for tests and dry runs. It
// prefixes a fixed header, so sealed output differs from the original but
// needs no key material.
type TestEncryptor struct {
	passphrase string
	configured bool
}

var _ organizer.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor returns an already configured TestEncryptor that accepts
// any passphrase until Setup is called.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{configured: true}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	e.configured = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(sealHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (organizer.DecryptionContext, error) {
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return e.configured }

// TestDecryptionContext removes the header added by TestEncryptor.
type TestDecryptionContext struct{}

var _ organizer.DecryptionContext = TestDecryptionContext{}

func (TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(sealHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header, sealHeader) {
		return errors.New("data was not sealed by TestEncryptor")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
