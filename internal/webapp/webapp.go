// Package webapp serves the HTML surface of the warden server: the signup
// and login forms, the signed-in home page, and logout.
package webapp

import (
	"cmp"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/http/httperror"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/internal/metrics"
	"go.avresk.dev/warden/wardencsrf"
	"go.avresk.dev/warden/wardenpassword"
	"go.avresk.dev/warden/wardensession"
)

//go:embed templates/*.html
var templateFS embed.FS

//nolint:gochecknoglobals
var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// LogoutHandler ends the session bound to a request.
type LogoutHandler interface {
	Logout(w http.ResponseWriter, r *http.Request) error
}

// Config is the configuration for the web application.
type Config struct {
	Logger *slog.Logger

	CSRFSecret   string
	CookieSecure bool

	// Password configures the password handler.
	// If nil, the default configuration is used.
	Password *wardenpassword.HTTPConfig
}

// NewConfig creates a new webapp configuration.
func NewConfig(opts ...func(*Config)) *Config {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	config.Logger = cmp.Or(config.Logger, warden.DefaultLogger)

	debug.Assert(config.Logger != nil, "config.Logger is required")

	return &config
}

// App wires the password handler, the session authenticator and the
// metrics collector into an HTTP surface.
type App struct {
	config        *Config
	password      *wardenpassword.HTTPHandler
	authenticator wardensession.Authenticator
	logout        LogoutHandler
	collector     *metrics.Collector
	registry      *prometheus.Registry
}

// New creates a new web application.
func New(
	store wardenpassword.UserStore,
	authenticator wardensession.Authenticator,
	logout LogoutHandler,
	registry *prometheus.Registry,
	config *Config,
) *App {
	if config == nil {
		config = NewConfig()
	}

	debug.Assert(store != nil, "store is required")
	debug.Assert(authenticator != nil, "authenticator is required")
	debug.Assert(logout != nil, "logout is required")
	debug.Assert(registry != nil, "registry is required")

	collector := metrics.NewCollector(registry)

	passwordConfig := config.Password
	if passwordConfig == nil {
		passwordConfig = wardenpassword.NewHTTPConfig()
	}

	passwordConfig.Hasher = collector.InstrumentHasher(passwordConfig.Hasher)

	return &App{
		config:        config,
		password:      wardenpassword.NewFormHandler(store, passwordConfig),
		authenticator: authenticator,
		logout:        logout,
		collector:     collector,
		registry:      registry,
	}
}

// Handler returns the application's HTTP handler.
//
// An error is returned when the CSRF middleware cannot be constructed,
// e.g. when the checksum secret is empty.
func (app *App) Handler() (http.Handler, error) {
	csrf, err := wardencsrf.Middleware(
		app.config.CSRFSecret,
		func(c *wardencsrf.Config) { c.CookieSecure = app.config.CookieSecure },
	)
	if err != nil {
		return nil, fmt.Errorf("webapp: failed to set up CSRF protection: %w", err)
	}

	visitor := wardensession.Middleware(
		app.authenticator,
		httperror.DefaultErrorHandler,
		wardensession.NewConfig(wardensession.WithPassthrough()),
	)
	guard := wardensession.Middleware(
		app.authenticator,
		wardensession.RedirectOnUnauthenticatedUser("/login"),
		nil,
	)

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(csrf, visitor, wardensession.RedirectAuthenticatedUserMiddleware("/"))

		r.Get("/login", app.loginPage)
		r.Post("/login", app.handleLogin)
		r.Get("/signup", app.signupPage)
		r.Post("/signup", app.handleSignup)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard)

		r.Get("/", app.homePage)
		r.Get("/logout", app.handleLogout)
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	return r, nil
}
