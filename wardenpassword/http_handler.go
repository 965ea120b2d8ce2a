package wardenpassword

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/http/httperror"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/wardenpasswordverifier"
)

var (
	//nolint:gochecknoglobals
	FormValidator = warden.DefaultFormValidator

	//nolint:gochecknoglobals
	FormModifier = warden.DefaultFormModifier
)

// GenericFailureMessage is the user-facing message for a rejected login.
// It is identical for an unknown name and a wrong password, so the
// response does not reveal whether a name exists.
const GenericFailureMessage = "either name or password is incorrect"

const (
	DefaultFieldName     = "name"
	DefaultFieldPassword = "password"
	DefaultFieldEmail    = "email"
	DefaultFieldAge      = "age"
)

type HTTPConfig struct {
	*Config

	FieldName     string // optional (default: DefaultFieldName)
	FieldPassword string // optional (default: DefaultFieldPassword)
	FieldEmail    string // optional (default: DefaultFieldEmail)
	FieldAge      string // optional (default: DefaultFieldAge)
}

func (c *HTTPConfig) defaults() {
	c.FieldName = cmp.Or(c.FieldName, DefaultFieldName)
	c.FieldPassword = cmp.Or(c.FieldPassword, DefaultFieldPassword)
	c.FieldEmail = cmp.Or(c.FieldEmail, DefaultFieldEmail)
	c.FieldAge = cmp.Or(c.FieldAge, DefaultFieldAge)

	if c.Config == nil {
		c.Config = NewConfig()
	}
}

func (c *HTTPConfig) assert() {
	debug.Assert(c.Config != nil, "Config must be set")
}

// NewHTTPConfig creates a new HTTPConfig with the given configuration options.
func NewHTTPConfig(opts ...func(*HTTPConfig)) *HTTPConfig {
	var config HTTPConfig
	for _, opt := range opts {
		opt(&config)
	}

	config.defaults()

	return &config
}

// HTTPHandler is a wrapper around Handler handling HTTP requests.
type HTTPHandler struct {
	handler *Handler
	config  *HTTPConfig
	parser  HTTPRequestParser
}

func newHTTPHandler(store UserStore, config *HTTPConfig, parser HTTPRequestParser) *HTTPHandler {
	h := HTTPHandler{
		NewHandler(store, config.Config),
		config,
		parser,
	}

	debug.Assert(h.handler != nil, "handler must be set")
	debug.Assert(h.config != nil, "config must be set")
	debug.Assert(h.parser != nil, "parser must be set")

	return &h
}

// NewFormHandler creates a new HTTP handler that handles form requests.
func NewFormHandler(store UserStore, config *HTTPConfig) *HTTPHandler {
	if config == nil {
		config = NewHTTPConfig()
	}

	config.assert()

	return newHTTPHandler(store, config, &formParser{config})
}

// NewJSONHandler creates a new HTTP handler that handles JSON requests.
func NewJSONHandler(store UserStore, config *HTTPConfig) *HTTPHandler {
	if config == nil {
		config = NewHTTPConfig()
	}

	config.assert()

	return newHTTPHandler(store, config, &jsonParser{config})
}

func (h *HTTPHandler) parseUserRegistrationData(
	req *http.Request,
) (*UserRegistrationData, error) {
	ctx := req.Context()

	form, err := h.parser.ParseUserRegistrationData(req)
	if err != nil {
		return nil, fmt.Errorf("warden/password: failed to parse request form: %w", err)
	}

	if err := FormModifier.Struct(ctx, form); err != nil {
		return nil, fmt.Errorf("warden/password: failed to parse request form: %w", err)
	}

	if err := FormValidator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, &ValidationError{
				Fields: fieldErrorsFromValidator(verrs),
				Data:   form,
			}
		}

		return nil, fmt.Errorf("warden/password: failed to parse request form: %w", err)
	}

	return form, nil
}

// HandleUserRegistration handles a user registration request.
//
// Validation failures and duplicate names surface as *ValidationError so
// the caller can redisplay the form with the original input and per-field
// messages; persistence is untouched in those cases.
func (h *HTTPHandler) HandleUserRegistration(r *http.Request) (*warden.User, error) {
	form, err := h.parseUserRegistrationData(r)
	if err != nil {
		return nil, httperror.FromError(err, http.StatusBadRequest)
	}

	age := 0
	if form.Age != "" {
		// The "number" validation tag guarantees digits only.
		age, _ = strconv.Atoi(form.Age)
	}

	result, err := h.handler.HandleUserRegistration(r.Context(), RegistrationParams{
		Name:     form.Name,
		Password: form.Password,
		Email:    form.Email,
		Age:      age,
	})
	if err != nil {
		if errors.Is(err, warden.ErrAuthenticatedUser) {
			return nil, httperror.FromError(err, http.StatusForbidden)
		}

		if errors.Is(err, ErrNameTaken) {
			return nil, httperror.FromError(&ValidationError{
				Fields: []FieldError{{Field: "name", Message: "is already taken"}},
				Data:   form,
			}, http.StatusConflict)
		}

		var verr *wardenpasswordverifier.PasswordVerificationError
		if errors.As(err, &verr) {
			return nil, httperror.FromError(&ValidationError{
				Fields: fieldErrorsFromPasswordVerifier(verr),
				Data:   form,
			}, http.StatusBadRequest)
		}

		return nil, httperror.FromError(err, http.StatusInternalServerError)
	}

	return result, nil
}

func (h *HTTPHandler) parseUserLoginData(req *http.Request) (*UserLoginData, error) {
	ctx := req.Context()

	form, err := h.parser.ParseUserLoginData(req)
	if err != nil {
		return nil, fmt.Errorf("warden/password: failed to parse request form: %w", err)
	}

	if err := FormModifier.Struct(ctx, form); err != nil {
		return nil, fmt.Errorf("warden/password: failed to parse request form: %w", err)
	}

	if err := FormValidator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, &ValidationError{Fields: fieldErrorsFromValidator(verrs)}
		}

		return nil, fmt.Errorf("warden/password: failed to parse request form: %w", err)
	}

	return form, nil
}

// HandleUserLogin handles a user login request.
func (h *HTTPHandler) HandleUserLogin(r *http.Request) (*warden.User, error) {
	form, err := h.parseUserLoginData(r)
	if err != nil {
		return nil, httperror.FromError(err, http.StatusBadRequest)
	}

	result, err := h.handler.HandleUserLogin(r.Context(), form.Name, form.Password)
	if err != nil {
		if errors.Is(err, warden.ErrAuthenticatedUser) {
			return nil, httperror.FromError(err, http.StatusForbidden)
		} else if errors.Is(err, ErrPasswordIncorrect) ||
			errors.Is(err, warden.ErrUserNotFound) {
			return nil, httperror.FromError(err, http.StatusUnauthorized,
				GenericFailureMessage)
		}

		return nil, httperror.FromError(err, http.StatusInternalServerError, "unexpected server error")
	}

	return result, nil
}
