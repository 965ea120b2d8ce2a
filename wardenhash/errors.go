package wardenhash

import "errors"

var (
	// ErrInvalidInput is returned when the password or salt violates the
	// hasher's bounds, e.g. an empty password or an undersized salt.
	ErrInvalidInput = errors.New("warden/hash: invalid input")

	// ErrInvalidOption is returned by NewArgon2Hasher when a cost parameter
	// falls outside the allowed range.
	ErrInvalidOption = errors.New("warden/hash: invalid option value")
)
