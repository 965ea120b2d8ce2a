package webapp

import (
	"errors"
	"log/slog"
	"net/http"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/wardencsrf"
	"go.avresk.dev/warden/wardenpassword"
	"go.avresk.dev/warden/wardensession"
)

type loginPageData struct {
	CSRFToken string
	Failed    bool
}

type signupPageData struct {
	CSRFToken string
	Errors    []wardenpassword.FieldError
	Name      string
	Email     string
	Age       string
}

type homePageData struct {
	Name   string
	UserID string
}

func (app *App) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		app.config.Logger.Error("webapp: failed to render template",
			slog.String("template", name),
			slog.Any("error", err))
	}
}

// renderError renders a generic error page. Internals never reach the
// response body.
func (app *App) renderError(w http.ResponseWriter, r *http.Request, err error) {
	app.config.Logger.Error("webapp: request failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))

	app.render(w, http.StatusInternalServerError, "error.html", nil)
}

func (app *App) csrfToken(w http.ResponseWriter, r *http.Request) string {
	tok, err := wardencsrf.FromRequest(r)
	if err != nil {
		return ""
	}

	wardencsrf.SetToken(w, tok)

	return tok.String()
}

func (app *App) loginPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, http.StatusOK, "login.html", loginPageData{
		CSRFToken: app.csrfToken(w, r),
		Failed:    r.URL.Query().Get("failed") != "",
	})
}

// handleLogin authenticates the submitted credentials and issues a
// session. Every rejected attempt takes the same redirect, whether the
// name is unknown, the password is wrong, or a field is missing.
func (app *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	user, err := app.password.HandleUserLogin(r)
	if err != nil {
		var verr *wardenpassword.ValidationError
		if errors.Is(err, wardenpassword.ErrPasswordIncorrect) ||
			errors.Is(err, warden.ErrUserNotFound) ||
			errors.As(err, &verr) {
			app.collector.RecordLogin("rejected")
			http.Redirect(w, r, "/login?failed=1", http.StatusSeeOther)

			return
		}

		app.collector.RecordLogin("error")
		app.renderError(w, r, err)

		return
	}

	if _, err := app.authenticator.Issue(w, r, *user); err != nil {
		app.collector.RecordLogin("error")
		app.renderError(w, r, err)

		return
	}

	app.collector.RecordLogin("ok")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *App) signupPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, http.StatusOK, "signup.html", signupPageData{
		CSRFToken: app.csrfToken(w, r),
	})
}

// handleSignup registers a new user. Validation failures and taken names
// redisplay the form with per-field messages and the original input, the
// password excluded.
func (app *App) handleSignup(w http.ResponseWriter, r *http.Request) {
	_, err := app.password.HandleUserRegistration(r)
	if err != nil {
		var verr *wardenpassword.ValidationError
		if errors.As(err, &verr) {
			app.collector.RecordSignup("rejected")

			data := signupPageData{
				CSRFToken: app.csrfToken(w, r),
				Errors:    verr.Fields,
			}
			if verr.Data != nil {
				data.Name = verr.Data.Name
				data.Email = verr.Data.Email
				data.Age = verr.Data.Age
			}

			app.render(w, http.StatusUnprocessableEntity, "signup.html", data)

			return
		}

		app.collector.RecordSignup("error")
		app.renderError(w, r, err)

		return
	}

	app.collector.RecordSignup("ok")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (app *App) homePage(w http.ResponseWriter, r *http.Request) {
	sess, err := wardensession.FromRequest(r)
	if err != nil {
		app.renderError(w, r, err)
		return
	}

	app.render(w, http.StatusOK, "home.html", homePageData{
		Name:   sess.Principal.Name,
		UserID: sess.Principal.UserID.String(),
	})
}

func (app *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := app.logout.Logout(w, r); err != nil {
		app.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
