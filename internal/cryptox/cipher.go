// Package cryptox implements the cryptographic primitives of the vault:
// field-level symmetric encryption of sensitive credential attributes and
// one-way password hashing under two policies (adaptive bcrypt for account
// secrets, fixed-salt digest for the local master-lock gate).
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/sbuga/passvault/internal/common"
)

const nonceSize = 12

// Cipher encrypts and decrypts string fields with AES-256-GCM under one
// static, process-wide key. All methods are safe for concurrent use; the
// key is immutable after construction.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from key material. A 32-byte key is used as-is;
// any other length is expanded to 32 bytes via SHA-256, so passphrase-style
// configuration values still yield a valid AES-256 key.
func NewCipher(key string) (*Cipher, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: encryption key is required", common.ErrValidation)
	}

	k := []byte(key)
	if len(k) != 32 {
		sum := sha256.Sum256(k)
		k = sum[:]
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext).
// A fresh random nonce is generated per call, so sealing the same plaintext
// twice yields different ciphertexts and stored secrets cannot be compared
// for equality.
func (c *Cipher) Seal(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. It returns common.ErrDecryption
// when the input is malformed, was sealed under a different key, or has
// been tampered with. It never substitutes an empty or garbage plaintext.
func (c *Cipher) Open(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", common.ErrDecryption)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrDecryption)
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	return string(plaintext), nil
}
