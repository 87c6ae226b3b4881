package encryption

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"quire/internal/quire"
)

// testHeader prefixes everything TestEncryptor writes.
var testHeader = []byte("QRENC\x00\x00\x00")

// ErrWrongPassphrase is returned by TestEncryptor.Unlock.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// TestEncryptor backs the "test" encryption type. Ciphertext is the
// plaintext behind a fixed header. Once Setup has run, Unlock only accepts
// the passphrase given to it.
type TestEncryptor struct {
	passphrase string
	hasKeys    bool
}

var _ quire.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase, e.hasKeys = passphrase, true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, io.MultiReader(bytes.NewReader(testHeader), r)); err != nil {
		return fmt.Errorf("test encrypt: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (quire.DecryptionContext, error) {
	if e.hasKeys && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return &TestDecryptionContext{}, nil
}

// IsConfigured is always true; the test type needs no key files.
func (e *TestEncryptor) IsConfigured() bool { return true }

type TestDecryptionContext struct{}

var _ quire.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(testHeader))
	if err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	if _, err := br.Discard(len(testHeader)); err != nil {
		return err
	}
	if _, err := io.Copy(w, br); err != nil {
		return fmt.Errorf("test decrypt: %w", err)
	}
	return nil
}
