package wardensession

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/http/httperror"
	"go.inout.gg/foundations/http/httpmiddleware"

	"go.avresk.dev/warden"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("warden/session")

type ctxKey struct{}

//nolint:gochecknoglobals
var kCtxKey = ctxKey{}

// Config is the configuration for the middleware.
type Config struct {
	Logger *slog.Logger

	// Passthrough controls whether the request should be failed
	// on unauthorized access.
	Passthrough bool
}

// WithPassthrough returns a function that sets the Passthrough field of the Config.
func WithPassthrough() func(*Config) {
	return func(c *Config) { c.Passthrough = true }
}

// NewConfig returns a new configuration for Middleware.
func NewConfig(opts ...func(*Config)) *Config {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	config.Logger = cmp.Or(config.Logger, warden.DefaultLogger)

	debug.Assert(config.Logger != nil, "logger must be set")

	return &config
}

// Middleware returns a middleware that restores the session attached to
// the request and adds it to the request context.
//
// If the request carries no valid session, the error handler is called.
//
// If config is nil, the default config is used.
//
// If config.Passthrough is set, the middleware will not fail the request
// on unauthorized access and instead will continue processing the request.
func Middleware(
	authenticator Authenticator,
	errorHandler httperror.ErrorHandler,
	config *Config,
) httpmiddleware.MiddlewareFunc {
	debug.Assert(authenticator != nil, "authenticator must be set")
	debug.Assert(errorHandler != nil, "errorHandler must be set")

	if config == nil {
		config = NewConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				nextReq := r

				sess, err := authenticator.Authenticate(w, r)
				if err != nil {
					// If Passthrough is set ignore the error and continue.
					if !config.Passthrough {
						errorHandler.ServeHTTP(
							w,
							r,
							httperror.FromError(
								err,
								http.StatusUnauthorized,
								"unauthorized access",
							),
						)

						return
					}
				} else {
					ctx := context.WithValue(r.Context(), kCtxKey, &sess)
					nextReq = r.WithContext(ctx)
				}

				next.ServeHTTP(w, nextReq)
			},
		)
	}
}

// RedirectOnUnauthenticatedUser returns an error handler that redirects
// unauthenticated requests to the given path instead of failing them.
// Any other error falls through to the default error handler.
func RedirectOnUnauthenticatedUser(path string) httperror.ErrorHandler {
	return httperror.ErrorHandlerFunc(
		func(w http.ResponseWriter, r *http.Request, err error) {
			if errors.Is(err, warden.ErrUnauthenticatedUser) {
				http.Redirect(w, r, path, http.StatusSeeOther)
				return
			}

			httperror.DefaultErrorHandler.ServeHTTP(w, r, err)
		},
	)
}

// RedirectAuthenticatedUserMiddleware redirects the user to the
// provided URL if the user is authenticated.
//
// Make sure to use the Middleware before adding this one.
func RedirectAuthenticatedUserMiddleware(
	redirectURL string,
) httpmiddleware.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if IsAuthenticated(r.Context()) {
					d("redirecting authenticated user")

					http.Redirect(
						w,
						r,
						redirectURL,
						http.StatusSeeOther,
					)

					return
				}

				next.ServeHTTP(w, r)
			},
		)
	}
}

// FromRequest returns the session from the request context if it exists.
//
// Make sure to use the Middleware before calling this function.
func FromRequest(r *http.Request) (*Session, error) {
	return FromContext(r.Context())
}

// FromContext returns the session from the context if it exists.
//
// Make sure to use the Middleware before calling this function.
func FromContext(ctx context.Context) (*Session, error) {
	if sess, ok := ctx.Value(kCtxKey).(*Session); ok {
		return sess, nil
	}

	return nil, warden.ErrUnauthenticatedUser
}

// IsAuthenticated returns true if the request is bound to a session.
func IsAuthenticated(ctx context.Context) bool {
	return ctx.Value(kCtxKey) != nil
}
