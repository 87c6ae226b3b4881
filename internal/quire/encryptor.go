package quire

import "io"

// Encryptor protects database backups before they leave the machine.
// Encrypting needs only the public key; decrypting requires unlocking the
// private key with the passphrase chosen at setup.
type Encryptor interface {
	// Setup generates the key pair once. The private key is stored
	// encrypted with passphrase.
	Setup(passphrase string) error

	// Encrypt writes the ciphertext of r to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock opens the private key. A wrong passphrase is an error.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory only.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
