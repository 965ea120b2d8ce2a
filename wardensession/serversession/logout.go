package serversession

import (
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.inout.gg/foundations/http/httpcookie"
	"go.inout.gg/foundations/http/httperror"
	"go.inout.gg/foundations/sqldb"

	"go.avresk.dev/warden/internal/dbq"
	"go.avresk.dev/warden/wardensession"
)

// LogoutHandler is a handler that logs out the user and expires the session.
type LogoutHandler struct {
	pool   *pgxpool.Pool
	config *Config
}

func NewLogoutHandler(pool *pgxpool.Pool, config *Config) *LogoutHandler {
	if config == nil {
		config = NewConfig()
	}

	return &LogoutHandler{pool, config}
}

// Logout expires the session bound to the request and deletes its cookie.
func (h *LogoutHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	sess, err := wardensession.FromRequest(r)
	if err != nil {
		return httperror.FromError(err, http.StatusUnauthorized)
	}

	if _, err := dbq.New().ExpireSessionByID(ctx, h.pool, sess.ID); err != nil {
		// An already expired row is fine: the cookie is cleared either way.
		if !sqldb.IsNotFoundError(err) {
			return fmt.Errorf(
				"warden/serversession: failed to expire session: %w",
				err,
			)
		}

		d("session id=%v already expired", sess.ID)
	}

	httpcookie.Delete(w, r, h.config.CookieName)

	return nil
}
