package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/sbuga/passvault/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the default bcrypt work factor for account secrets.
const DefaultCost = 12

const saltBytes = 16

// HashPassword hashes plaintext with bcrypt (the adaptive policy).
// cost <= 0 selects DefaultCost. The work factor is embedded in the digest,
// so digests produced under an older cost keep verifying after the
// configured cost changes.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword verifies plaintext against a bcrypt digest. Any mismatch,
// malformed digest, or failure inside the primitive yields false; the
// function never returns an error a caller could misinterpret as success.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// GenerateSalt returns a fresh unpredictable hex salt for the fixed-salt
// policy.
func GenerateSalt() (string, error) {
	return common.MakeRandHexString(saltBytes)
}

// DigestWithSalt computes the fixed-salt digest: SHA-256 over
// plaintext+salt, hex encoded. This policy is deliberately fast and is
// appropriate only for the local master-lock gate, never for secrets that
// protect the encryption key itself.
func DigestWithSalt(plaintext, salt string) string {
	sum := sha256.Sum256([]byte(plaintext + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyDigest checks plaintext against a fixed-salt digest in constant
// time. Malformed digests simply fail to match.
func VerifyDigest(plaintext, digest, salt string) bool {
	candidate := DigestWithSalt(plaintext, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
