package util

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// HashPassword computes the SHA-256 digest of the password. The digest is
// deterministic for a given password: authentication looks rows up by
// (email, digest) in a single query.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// GenerateDigitalID derives the unique digital ID hash from the email, the
// enrollment number and a random nonce. The nonce makes the hash
// unpredictable and unique even when two users share identical identity
// fields. Computed once at account creation and never recomputed.
func GenerateDigitalID(email, enrollmentNumber string) string {
	sum := sha256.Sum256([]byte(email + enrollmentNumber + uuid.NewString()))
	return hex.EncodeToString(sum[:])
}
