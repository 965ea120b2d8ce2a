// Package serversession implements a server-side session strategy: the
// principal is persisted in a PostgreSQL table and the client only holds
// an opaque session ID in a cookie.
package serversession

import (
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/http/httpcookie"
	"go.inout.gg/foundations/sqldb"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/internal/dbq"
	"go.avresk.dev/warden/internal/uuidv7"
	"go.avresk.dev/warden/wardensession"
)

var _ wardensession.Authenticator = (*sessionStrategy)(nil)

//nolint:gochecknoglobals
var d = debug.Debuglog("warden/serversession")

const (
	DefaultCookieName = "wsid"
	DefaultExpiresIn  = time.Hour * 12
)

type sessionStrategy struct {
	pool   *pgxpool.Pool
	config *Config
}

type Config struct {
	Logger *slog.Logger

	CookieName string        // optional (default: "wsid")
	ExpiresIn  time.Duration // optional (default: 12h)
}

// NewConfig creates a new session configuration.
func NewConfig(opts ...func(*Config)) *Config {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	config.Logger = cmp.Or(config.Logger, warden.DefaultLogger)
	config.CookieName = cmp.Or(config.CookieName, DefaultCookieName)
	config.ExpiresIn = cmp.Or(config.ExpiresIn, DefaultExpiresIn)

	debug.Assert(config.Logger != nil, "config.Logger is required")
	debug.Assert(config.CookieName != "", "config.CookieName is required")
	debug.Assert(
		config.ExpiresIn > 0,
		"config.ExpiresIn must be positive time.Duration",
	)

	return &config
}

// New creates a new session authenticator.
//
// The authenticator uses a DB to store sessions and a cookie to store the
// session ID.
func New(pool *pgxpool.Pool, config *Config) wardensession.Authenticator {
	if config == nil {
		config = NewConfig()
	}

	debug.Assert(pool != nil, "pool is required")

	return &sessionStrategy{
		pool:   pool,
		config: config,
	}
}

func (s *sessionStrategy) Issue(
	w http.ResponseWriter,
	r *http.Request,
	user warden.User,
) (wardensession.Session, error) {
	ctx := r.Context()
	sessionID := uuidv7.Must()
	expiresAt := time.Now().Add(s.config.ExpiresIn)
	principal := wardensession.SerializePrincipal(user)

	d(
		"issuing a new session with id=%v for user=%v, expiring at=%v",
		sessionID,
		user.ID,
		expiresAt,
	)

	var sess wardensession.Session

	_, err := dbq.New().CreateUserSession(ctx, s.pool, dbq.CreateUserSessionParams{
		ID:        sessionID,
		UserID:    principal.UserID,
		UserName:  principal.Name,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return sess, fmt.Errorf(
			"warden/serversession: failed to create session: %w",
			err,
		)
	}

	sess.ID = sessionID
	sess.Principal = principal
	sess.ExpiresAt = expiresAt

	httpcookie.Set(
		w,
		s.config.CookieName,
		sessionID.String(),
		httpcookie.WithHttpOnly,
		httpcookie.WithExpiresIn(s.config.ExpiresIn),
	)

	return sess, nil
}

func (s *sessionStrategy) Authenticate(
	w http.ResponseWriter,
	r *http.Request,
) (wardensession.Session, error) {
	ctx := r.Context()

	var sess wardensession.Session

	sessionIDStr := httpcookie.Get(r, s.config.CookieName)
	if sessionIDStr == "" {
		return sess, warden.ErrUnauthenticatedUser
	}

	sessionID, err := uuidv7.FromString(sessionIDStr)
	if err != nil {
		httpcookie.Delete(w, r, s.config.CookieName)
		return sess, warden.ErrUnauthenticatedUser
	}

	dbSess, err := dbq.New().FindActiveSessionByID(ctx, s.pool, sessionID)
	if err != nil {
		if sqldb.IsNotFoundError(err) {
			d("no active session with id=%v", sessionID)

			httpcookie.Delete(w, r, s.config.CookieName)

			return sess, warden.ErrUnauthenticatedUser
		}

		return sess, fmt.Errorf(
			"warden/serversession: failed to find user session: %w",
			err,
		)
	}

	sess.ID = dbSess.ID
	sess.ExpiresAt = dbSess.ExpiresAt
	sess.Principal = wardensession.RestorePrincipal(wardensession.Principal{
		UserID: dbSess.UserID,
		Name:   dbSess.UserName,
	})

	return sess, nil
}
