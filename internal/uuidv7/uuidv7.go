// uuidv7 is a wrapper around google's uuid package.
package uuidv7

import (
	"fmt"

	"github.com/google/uuid"
	"go.inout.gg/foundations/must"
)

// Must returns a new random UUID. It panics if there is an error.
func Must() uuid.UUID {
	return must.Must(uuid.NewV7())
}

// FromString parses a UUID from a string.
func FromString(s string) (uuid.UUID, error) {
	uid, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("warden: failed to parse UUID: %w", err)
	}

	return uid, nil
}
