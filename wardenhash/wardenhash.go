// Package wardenhash derives salted password digests.
//
// A fresh random salt is generated per user record and stored alongside
// the digest; mixing it into the derivation defeats precomputed-table
// attacks and makes digests of identical passwords unrelated.
package wardenhash

// Salt is a per-record random value mixed into the password derivation.
type Salt []byte

// Digest is the fixed-length output of the key derivation.
type Digest []byte

// Hasher derives password digests. Implementations must be safe for
// concurrent use.
type Hasher interface {
	// GenerateSalt produces a cryptographically random salt of the
	// implementation-chosen fixed length.
	GenerateSalt() (Salt, error)

	// Hash derives a digest from the password and salt. The derivation is
	// deterministic: the same (password, salt) pair always yields the same
	// digest.
	Hash(password string, salt Salt) (Digest, error)
}

// DefaultHasher is the password hashing algorithm used when none is
// configured explicitly.
//
//nolint:gochecknoglobals
var DefaultHasher = NewArgon2Hasher(DefaultArgon2Options())
