// Package cryptox wraps the primitives behind share-key wrapping: Argon2id
// for password-derived key-encryption-keys, HKDF-SHA256 for deterministic
// subkeys, and XChaCha20-Poly1305 for authenticated encryption.
package cryptox

import (
	"crypto/sha256"
	"io"

	"github.com/privychat/sharekit/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the XChaCha20-Poly1305 key length. Content keys and
	// derived KEKs are all this size.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the XChaCha20-Poly1305 extended nonce length (24 bytes),
	// large enough to draw randomly per encode without collision concerns.
	NonceSize = chacha20poly1305.NonceSizeX
	// SaltSize is the Argon2id salt length.
	SaltSize = 16
)

// Argon2id parameters. Memory-hard enough to make offline guessing of short
// link passwords expensive while staying tolerable on phones.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// DeriveKEK stretches a link password into a key-encryption-key.
// Deterministic for a given (password, salt) pair.
func DeriveKEK(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// DeriveSubkey expands seed into a KeySize key bound to label via
// HKDF-SHA256. Distinct labels yield independent keys from the same seed,
// which is what keeps chat and embed blobs from ever cross-decoding.
func DeriveSubkey(seed []byte, label string) ([]byte, error) {
	r := hkdf.New(sha256.New, seed, nil, []byte(label))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Seal encrypts plaintext under key with the given nonce, binding aad into
// the authentication tag. The nonce is not prepended; callers carry it.
func Seal(key, nonce, plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// Open reverses Seal. It fails when the key, nonce, ciphertext, or aad do
// not match what was sealed.
func Open(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, aad)
}

// NewKey returns a fresh random content key.
func NewKey() []byte {
	return common.GenerateRandByteArray(KeySize)
}

// NewNonce returns a fresh random XChaCha20 nonce.
func NewNonce() []byte {
	return common.GenerateRandByteArray(NonceSize)
}

// NewSalt returns a fresh random Argon2id salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}
