package wardenpassword

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.inout.gg/foundations/debug"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/wardenhash"
	"go.avresk.dev/warden/wardenpasswordverifier"
	"go.avresk.dev/warden/wardensession"
)

// Config is the configuration for the password handler.
type Config struct {
	Logger           *slog.Logger
	Hasher           wardenhash.Hasher
	PasswordVerifier wardenpasswordverifier.PasswordVerifier
}

func (c *Config) defaults() {
	c.Logger = cmp.Or(c.Logger, warden.DefaultLogger)
	if c.Hasher == nil {
		c.Hasher = wardenhash.DefaultHasher
	}
}

func (c *Config) assert() {
	debug.Assert(c.Hasher != nil, "Hasher must be set")
	debug.Assert(c.Logger != nil, "Logger must be set")
}

// NewConfig creates a new config.
//
// If no hasher is configured, wardenhash.DefaultHasher will be used.
func NewConfig(opts ...func(*Config)) *Config {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	config.defaults()
	config.assert()

	return &config
}

// WithHasher configures the password hasher.
//
// When setting a hasher make sure the same one is used for registration
// and login, otherwise stored digests stop verifying.
func WithHasher(hasher wardenhash.Hasher) func(*Config) {
	return func(cfg *Config) { cfg.Hasher = hasher }
}

// WithPasswordVerifier configures an optional password strength verifier
// applied on registration.
func WithPasswordVerifier(v wardenpasswordverifier.PasswordVerifier) func(*Config) {
	return func(cfg *Config) { cfg.PasswordVerifier = v }
}

// Handler implements the local-credential authentication strategy on top
// of a UserStore collaborator.
type Handler struct {
	store  UserStore
	config *Config
}

func NewHandler(store UserStore, config *Config) *Handler {
	if config == nil {
		config = NewConfig()
	}

	config.assert()

	h := Handler{
		store:  store,
		config: config,
	}

	debug.Assert(h.store != nil, "store must be set")

	return &h
}

// RegistrationParams carries validated signup input.
type RegistrationParams struct {
	Name     string
	Password string
	Email    string // optional
	Age      int    // optional, 0 means unset
}

// HandleUserRegistration registers a new user: it derives a fresh salt and
// password digest and persists the record through the store.
//
// A duplicate name surfaces as ErrNameTaken.
func (h *Handler) HandleUserRegistration(
	ctx context.Context,
	params RegistrationParams,
) (*warden.User, error) {
	// Forbid authorized user access.
	if wardensession.IsAuthenticated(ctx) {
		return nil, warden.ErrAuthenticatedUser
	}

	if v := h.config.PasswordVerifier; v != nil {
		if err := v.Verify(params.Password); err != nil {
			return nil, fmt.Errorf(
				"warden/password: password verification failed: %w",
				err,
			)
		}
	}

	salt, err := h.config.Hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf(
			"warden/password: failed to generate salt: %w",
			err,
		)
	}

	// The digest is derived before touching the store so the expensive
	// KDF never runs inside a storage transaction.
	digest, err := h.config.Hasher.Hash(params.Password, salt)
	if err != nil {
		return nil, fmt.Errorf(
			"warden/password: failed to hash password: %w",
			err,
		)
	}

	user, err := h.store.CreateUser(ctx, CreateUserParams{
		Name:           params.Name,
		PasswordDigest: digest,
		Salt:           salt,
		Email:          params.Email,
		Age:            params.Age,
	})
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			d("name already exists")
			return nil, ErrNameTaken
		}

		return nil, fmt.Errorf(
			"warden/password: failed to register a user: %w",
			err,
		)
	}

	h.config.Logger.InfoContext(ctx, "registered a new user",
		slog.String("user_id", user.ID.String()),
		slog.String("name", user.Name),
	)

	return user, nil
}

// HandleUserLogin performs one login attempt: it looks up the record by
// name, recomputes the digest with the stored salt and compares it in
// constant time.
//
// An unknown name returns warden.ErrUserNotFound and a digest mismatch
// returns ErrPasswordIncorrect; callers must present both identically so
// the response does not reveal whether a name exists.
func (h *Handler) HandleUserLogin(
	ctx context.Context,
	name, password string,
) (*warden.User, error) {
	// Forbid authorized user access.
	if wardensession.IsAuthenticated(ctx) {
		return nil, warden.ErrAuthenticatedUser
	}

	cred, err := h.store.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, warden.ErrUserNotFound) {
			return nil, warden.ErrUserNotFound
		}

		return nil, fmt.Errorf(
			"warden/password: failed to find user: %w",
			err,
		)
	}

	// Treat a missing digest as a non-existing user/credential.
	if len(cred.PasswordDigest) == 0 {
		d("empty digest in store")
		return nil, warden.ErrUserNotFound
	}

	ok, err := wardenhash.Verify(h.config.Hasher, password, cred.Salt, cred.PasswordDigest)
	if err != nil {
		// An out-of-bounds candidate (e.g. empty password) can never match.
		if errors.Is(err, wardenhash.ErrInvalidInput) {
			return nil, ErrPasswordIncorrect
		}

		return nil, fmt.Errorf(
			"warden/password: failed to verify password: %w",
			err,
		)
	}

	if !ok {
		d("password mismatch")
		return nil, ErrPasswordIncorrect
	}

	user := cred.User

	return &user, nil
}
