// Package wardenpassword implements user registration and login flows with
// a local username/password credential.
package wardenpassword

import (
	"context"
	"errors"

	"go.inout.gg/foundations/debug"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/wardenhash"
)

var (
	ErrNameTaken         = errors.New("warden/password: name already taken")
	ErrPasswordIncorrect = errors.New("warden/password: password incorrect")
)

//nolint:gochecknoglobals
var d = debug.Debuglog("warden/password")

// Credential is a stored user record together with its password material.
// It is borrowed from the store for the duration of a single verification
// call and must not be retained across requests.
type Credential struct {
	User           warden.User
	PasswordDigest wardenhash.Digest
	Salt           wardenhash.Salt
}

// CreateUserParams carries the fields persisted for a new user record.
type CreateUserParams struct {
	Name           string
	PasswordDigest wardenhash.Digest
	Salt           wardenhash.Salt
	Email          string
	Age            int
}

// UserStore is the persistence collaborator of the password strategy.
//
// Implementations must return warden.ErrUserNotFound when no record exists
// for a name, and ErrNameTaken when a create collides with an existing name.
type UserStore interface {
	FindUserByName(ctx context.Context, name string) (*Credential, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*warden.User, error)
}
