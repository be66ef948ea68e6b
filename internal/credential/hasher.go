// Package credential wraps the one-way hashing used for PINs and admin
// passwords. Plaintext secrets and their hashes never cross the server
// boundary.
package credential

import "golang.org/x/crypto/bcrypt"

// cost matches the work factor the mobile clients were provisioned
// against; changing it invalidates nothing but slows new hashes.
const cost = 10

// Hasher produces and verifies salted adaptive hashes.
type Hasher struct{}

// NewHasher returns a bcrypt-backed hasher with the fixed work factor.
func NewHasher() Hasher {
	return Hasher{}
}

// Hash derives a salted hash from the secret. Failure here is fatal to
// the calling operation.
func (Hasher) Hash(secret string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(secret), cost)
}

// Verify reports whether secret matches the stored hash. A mismatch is
// a normal negative result, not an error.
func (Hasher) Verify(secret string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(secret)) == nil
}
