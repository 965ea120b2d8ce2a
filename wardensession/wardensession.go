// Package wardensession defines the session principal issued on successful
// authentication and the strategy interface for issuing and restoring it.
package wardensession

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"go.avresk.dev/warden"
)

// Principal is the minimal identity kept in a session: just enough to
// re-authorize subsequent requests without re-querying the full user
// record. It never carries password material.
type Principal struct {
	UserID uuid.UUID
	Name   string
}

// Session is issued when a user is authenticated.
type Session struct {
	ID        uuid.UUID
	Principal Principal
	ExpiresAt time.Time
}

// SerializePrincipal reduces a user record to its session principal.
func SerializePrincipal(user warden.User) Principal {
	return Principal{UserID: user.ID, Name: user.Name}
}

// RestorePrincipal rebuilds the principal from its stored form. It is an
// identity transform: the stored record is trusted as-is for the rest of
// the session, so a user deleted or renamed after login keeps its old
// identity until the session expires.
func RestorePrincipal(stored Principal) Principal {
	return stored
}

// Authenticator issues and restores sessions.
type Authenticator interface {
	// Issue creates a new session for the given user and attaches it to
	// the response. The session must be persisted before Issue returns, so
	// it is durable by the time the response is sent.
	Issue(w http.ResponseWriter, r *http.Request, user warden.User) (Session, error)

	// Authenticate restores the session attached to the request.
	//
	// It returns warden.ErrUnauthenticatedUser when the request carries no
	// valid session.
	Authenticate(w http.ResponseWriter, r *http.Request) (Session, error)
}
