// Package warden implements a minimal user signup/login backend with a
// local-credential (username + password) strategy and server-side sessions.
package warden

import (
	"errors"
	"log/slog"
	"os"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const CredentialPassword = "password"

var (
	ErrAuthenticatedUser   = errors.New("warden: authenticated user access")
	ErrUnauthenticatedUser = errors.New("warden: unauthenticated user access")
	ErrUserNotFound        = errors.New("warden: user not found")
)

// DefaultLogger is used by handlers and middlewares when no logger
// is configured explicitly.
//
//nolint:gochecknoglobals
var DefaultLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

var (
	// DefaultFormValidator validates submitted form data.
	//
	//nolint:gochecknoglobals
	DefaultFormValidator = validator.New(validator.WithRequiredStructEnabled())

	// DefaultFormModifier normalizes submitted form data before validation.
	//
	//nolint:gochecknoglobals
	DefaultFormModifier = modifiers.New()
)

// User is a registered account as seen outside the storage layer.
// It never carries password material.
type User struct {
	// ID is the user ID.
	ID uuid.UUID

	// Name is the unique credential identifier. Immutable after creation.
	Name string

	// Email is an optional profile field. It carries no behavioral
	// invariants.
	Email string

	// Age is an optional profile field. Zero means unset.
	Age int
}
