// Package cryptox implements at-rest encryption of individual vault item
// fields and the handling of the process-wide field key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// fieldPrefix marks the encoding version of a stored ciphertext.
	fieldPrefix = "v1."
)

// keySalt is fixed so the same configured secret derives the same key on
// every start. The secret itself is the only entropy source.
var keySalt = []byte("secure-vault/field-key/v1")

// DeriveMasterKey stretches password into a KeySize key with Argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// KeyFromSecret turns the configured encryption secret into a field key.
//
// A secret of exactly 64 hex characters is decoded and used as-is. Any other
// non-empty secret is treated as a passphrase and run through
// DeriveMasterKey. An empty secret is rejected with
// common.ErrMissingEncryptionKey: there is no built-in fallback key.
func KeyFromSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, common.ErrMissingEncryptionKey
	}

	if len(secret) == hex.EncodedLen(KeySize) {
		if key, err := hex.DecodeString(secret); err == nil {
			return key, nil
		}
	}

	return DeriveMasterKey([]byte(secret), keySalt), nil
}

// KeyFingerprint returns a short, non-reversible identifier of key that is
// safe to log.
func KeyFingerprint(key []byte) string {
	hash := sha256.Sum256(key)
	return hex.EncodeToString(hash[:6])
}

// FieldCipher encrypts and decrypts single string values with AES-256-GCM.
//
// Every call to EncryptField draws a fresh random nonce, so equal plaintexts
// never produce equal ciphertexts. The stored form is
//
//	"v1." + base64url(nonce || sealed)
//
// which carries everything DecryptField needs besides the key.
//
// A FieldCipher is immutable after construction and safe for concurrent use.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a FieldCipher around a KeySize-byte key. The key is
// copied into the AES key schedule; callers may wipe their slice afterwards.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("field key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// EncryptField seals plaintext and returns its encoded ciphertext.
func (c *FieldCipher) EncryptField(plaintext string) (string, error) {
	nonce := common.GenerateRandByteArray(c.aead.NonceSize())

	// Seal appends to nonce, giving nonce || ciphertext || tag.
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return fieldPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptField reverses EncryptField. Any value that was not produced by
// EncryptField under the same key yields an error wrapping
// common.ErrDecryptionFailure, including the empty string.
func (c *FieldCipher) DecryptField(ciphertext string) (string, error) {
	encoded, ok := strings.CutPrefix(ciphertext, fieldPrefix)
	if !ok {
		return "", fmt.Errorf("%w: unknown encoding", common.ErrDecryptionFailure)
	}

	buf, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: malformed payload", common.ErrDecryptionFailure)
	}

	nonceSize := c.aead.NonceSize()
	if len(buf) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrDecryptionFailure)
	}

	nonce, sealed := buf[:nonceSize], buf[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: wrong key or tampered data", common.ErrDecryptionFailure)
	}

	return string(plaintext), nil
}
