package wardenpassword

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/internal/uuidv7"
	"go.avresk.dev/warden/wardenhash"
	"go.avresk.dev/warden/wardenpasswordverifier"
)

// memStore is an in-memory UserStore used in place of the PostgreSQL
// implementation.
type memStore struct {
	mu    sync.Mutex
	users map[string]*Credential
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*Credential)}
}

func (s *memStore) FindUserByName(_ context.Context, name string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.users[name]
	if !ok {
		return nil, warden.ErrUserNotFound
	}

	c := *cred

	return &c, nil
}

func (s *memStore) CreateUser(_ context.Context, params CreateUserParams) (*warden.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[params.Name]; ok {
		return nil, ErrNameTaken
	}

	user := warden.User{
		ID:    uuidv7.Must(),
		Name:  params.Name,
		Email: params.Email,
		Age:   params.Age,
	}
	s.users[params.Name] = &Credential{
		User:           user,
		PasswordDigest: params.PasswordDigest,
		Salt:           params.Salt,
	}

	return &user, nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.users)
}

func testHandlerConfig(opts ...func(*Config)) *Config {
	opts = append(
		[]func(*Config){WithHasher(wardenhash.NewArgon2Hasher(wardenhash.Argon2Options{
			Memory:  1024,
			Time:    1,
			Threads: 1,
		}))},
		opts...,
	)

	return NewConfig(opts...)
}

func TestUserRegistration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("register user", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		h := NewHandler(store, testHandlerConfig())

		user, err := h.HandleUserRegistration(ctx, RegistrationParams{
			Name:     "alice",
			Password: "secret",
			Email:    "alice@test.org",
			Age:      30,
		})
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Name)
		assert.Equal(t, "alice@test.org", user.Email)
		assert.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")

		// The stored credential verifies against the original password and
		// never contains it in the clear.
		cred, err := store.FindUserByName(ctx, "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, cred.Salt)
		assert.NotContains(t, string(cred.PasswordDigest), "secret")

		ok, err := wardenhash.Verify(h.config.Hasher, "secret", cred.Salt, cred.PasswordDigest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("salts are unique per user", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		h := NewHandler(store, testHandlerConfig())

		_, err := h.HandleUserRegistration(ctx, RegistrationParams{Name: "alice", Password: "secret"})
		require.NoError(t, err)
		_, err = h.HandleUserRegistration(ctx, RegistrationParams{Name: "bob", Password: "secret"})
		require.NoError(t, err)

		alice, err := store.FindUserByName(ctx, "alice")
		require.NoError(t, err)
		bob, err := store.FindUserByName(ctx, "bob")
		require.NoError(t, err)

		assert.NotEqual(t, alice.Salt, bob.Salt)
		assert.NotEqual(t, alice.PasswordDigest, bob.PasswordDigest)
	})

	t.Run("name already taken", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		h := NewHandler(store, testHandlerConfig())

		_, err := h.HandleUserRegistration(ctx, RegistrationParams{Name: "alice", Password: "secret"})
		require.NoError(t, err)

		_, err = h.HandleUserRegistration(ctx, RegistrationParams{Name: "alice", Password: "other"})
		assert.ErrorIs(t, err, ErrNameTaken)
		assert.Equal(t, 1, store.len())
	})

	t.Run("weak password is rejected before the store is touched", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		h := NewHandler(store, testHandlerConfig(
			WithPasswordVerifier(wardenpasswordverifier.New(nil)),
		))

		_, err := h.HandleUserRegistration(ctx, RegistrationParams{Name: "alice", Password: "short"})
		require.Error(t, err)

		var verr *wardenpasswordverifier.PasswordVerificationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, store.len())
	})
}

func TestUserLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	register := func(t *testing.T, h *Handler, name, password string) *warden.User {
		t.Helper()

		user, err := h.HandleUserRegistration(ctx, RegistrationParams{
			Name:     name,
			Password: password,
		})
		require.NoError(t, err)

		return user
	}

	t.Run("correct credentials authenticate", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(newMemStore(), testHandlerConfig())
		registered := register(t, h, "alice", "secret")

		user, err := h.HandleUserLogin(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, "alice", user.Name)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(newMemStore(), testHandlerConfig())
		register(t, h, "alice", "secret")

		_, err := h.HandleUserLogin(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrPasswordIncorrect)
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(newMemStore(), testHandlerConfig())

		_, err := h.HandleUserLogin(ctx, "nobody", "secret")
		assert.ErrorIs(t, err, warden.ErrUserNotFound)
	})

	t.Run("empty stored digest is treated as not found", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.users["ghost"] = &Credential{
			User: warden.User{ID: uuidv7.Must(), Name: "ghost"},
		}
		h := NewHandler(store, testHandlerConfig())

		_, err := h.HandleUserLogin(ctx, "ghost", "anything")
		assert.ErrorIs(t, err, warden.ErrUserNotFound)
	})
}
