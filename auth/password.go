package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	hashLen    = 32
	hashRounds = 310_000
)

// A Passworder derives and compares password hashes.
//
// Each password gets its own random salt. The derived hash and the salt are
// both persisted; neither reveals the password.
type Passworder struct{}

// Derive generates a fresh random salt and the PBKDF2 hash of password under it.
func (p Passworder) Derive(password string) (salt, hash []byte, err error) {
	salt = make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("reading salt: %w", err)
	}

	return salt, p.hash(password, salt), nil
}

// Compare reports whether password derives hash under salt.
//
// The comparison takes constant time.
func (p Passworder) Compare(salt, hash []byte, password string) bool {
	return subtle.ConstantTimeCompare(hash, p.hash(password, salt)) == 1
}

func (p Passworder) hash(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, hashRounds, hashLen, sha256.New)
}
