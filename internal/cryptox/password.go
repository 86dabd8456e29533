// Package cryptox owns the password-hashing primitives. All hashing goes
// through bcrypt, which salts per call and compares in constant time
// relative to the stored hash.
package cryptox

import (
	"crypto/rand"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a bcrypt hash of 32 random bytes, generated once at startup.
// It is compared against when the account does not exist, so that a lookup
// miss costs the same as a wrong password.
var dummyHash = func() []byte {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	h, err := bcrypt.GenerateFromPassword(b, bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// HashPassword hashes a plaintext password with a fresh random salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyCheck burns one bcrypt comparison against a throwaway hash. Called on
// the no-such-account path so its timing matches CheckPassword.
func DummyCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
