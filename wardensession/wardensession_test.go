package wardensession

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go.avresk.dev/warden"
)

func TestSerializePrincipal(t *testing.T) {
	t.Parallel()

	user := warden.User{
		ID:    uuid.New(),
		Name:  "prapor",
		Email: "prapor@tarkov.example",
		Age:   47,
	}

	principal := SerializePrincipal(user)

	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, user.Name, principal.Name)
}

func TestRestorePrincipal(t *testing.T) {
	t.Parallel()

	user := warden.User{ID: uuid.New(), Name: "prapor"}

	// Restoring a stored principal returns it unchanged.
	principal := SerializePrincipal(user)
	assert.Equal(t, principal, RestorePrincipal(principal))
}
