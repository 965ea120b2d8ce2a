package wardenhash

import (
	"cmp"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"go.inout.gg/foundations/debug"
	"golang.org/x/crypto/argon2"
)

var _ Hasher = (*Argon2Hasher)(nil)

const (
	// DefaultMemory is the default argon2id memory cost in KiB (64 MiB).
	DefaultMemory uint32 = 64 * 1024

	// DefaultTime is the default number of passes over memory.
	DefaultTime uint32 = 3

	// DefaultThreads is the default degree of parallelism.
	DefaultThreads uint8 = 2

	// DefaultKeyLen is the digest length in bytes.
	DefaultKeyLen uint32 = 32

	// DefaultSaltLen is the salt length in bytes.
	DefaultSaltLen uint32 = 16
)

// MinSaltLen is the smallest salt accepted by Hash.
const MinSaltLen = 8

// Argon2Options configures an Argon2Hasher.
//
// Changing cost parameters only affects newly derived digests; stored
// digests remain verifiable as long as their salt is kept, since the
// derivation is re-run with the hasher's current parameters.
type Argon2Options struct {
	Memory  uint32 // memory cost in KiB (default: DefaultMemory)
	Time    uint32 // iterations (default: DefaultTime)
	Threads uint8  // parallelism (default: DefaultThreads)
	KeyLen  uint32 // digest length in bytes (default: DefaultKeyLen)
	SaltLen uint32 // salt length in bytes (default: DefaultSaltLen)
}

// DefaultArgon2Options returns the recommended parameter set. It exceeds
// the OWASP ASVS Level 2 minimums for argon2id.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Memory:  DefaultMemory,
		Time:    DefaultTime,
		Threads: DefaultThreads,
		KeyLen:  DefaultKeyLen,
		SaltLen: DefaultSaltLen,
	}
}

func (o *Argon2Options) defaults() {
	o.Memory = cmp.Or(o.Memory, DefaultMemory)
	o.Time = cmp.Or(o.Time, DefaultTime)
	o.Threads = cmp.Or(o.Threads, DefaultThreads)
	o.KeyLen = cmp.Or(o.KeyLen, DefaultKeyLen)
	o.SaltLen = cmp.Or(o.SaltLen, DefaultSaltLen)
}

func (o *Argon2Options) assert() {
	debug.Assert(o.Memory >= 8*uint32(o.Threads), "Memory must be >= 8*Threads KiB")
	debug.Assert(o.KeyLen >= 4, "KeyLen must be >= 4")
	debug.Assert(o.SaltLen >= MinSaltLen, "SaltLen must be >= MinSaltLen")
}

// Argon2Hasher derives digests with the argon2id KDF. It is immutable
// after construction and safe for concurrent use.
type Argon2Hasher struct {
	opts Argon2Options
}

// NewArgon2Hasher creates a hasher with the given options. Zero-valued
// fields fall back to the defaults.
func NewArgon2Hasher(opts Argon2Options) *Argon2Hasher {
	opts.defaults()
	(&opts).assert()

	return &Argon2Hasher{opts: opts}
}

// Options returns the current parameter set.
func (h *Argon2Hasher) Options() Argon2Options { return h.opts }

// GenerateSalt produces a fresh random salt of the configured length.
func (h *Argon2Hasher) GenerateSalt() (Salt, error) {
	salt := make(Salt, h.opts.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("warden/hash: failed to generate salt: %w", err)
	}

	return salt, nil
}

// Hash derives an argon2id digest from the password and salt.
func (h *Argon2Hasher) Hash(password string, salt Salt) (Digest, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidInput)
	}

	if len(salt) < MinSaltLen {
		return nil, fmt.Errorf(
			"%w: salt must be at least %d bytes, got %d",
			ErrInvalidInput, MinSaltLen, len(salt),
		)
	}

	digest := argon2.IDKey(
		[]byte(password), salt,
		h.opts.Time, h.opts.Memory, h.opts.Threads, h.opts.KeyLen,
	)

	return digest, nil
}

// Verify recomputes the digest for (password, salt) with h and compares it
// against the stored digest in constant time, so the comparison does not
// leak the position of the first differing byte.
func Verify(h Hasher, password string, salt Salt, digest Digest) (bool, error) {
	computed, err := h.Hash(password, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(computed, digest) == 1, nil
}
