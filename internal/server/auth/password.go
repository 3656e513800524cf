// Package auth implements the three credential mechanisms of the server:
// bcrypt password digests, HS256 session tokens, and wallet-signature proofs.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest of password. A fresh random
// salt is generated on every call, so two digests of the same password differ.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches the stored digest.
// A malformed or truncated digest verifies as false, never as an error:
// callers treat it exactly like a wrong password.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
