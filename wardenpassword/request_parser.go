package wardenpassword

import (
	"encoding/json"
	"net/http"
)

var (
	_ HTTPRequestParser = (*formParser)(nil)
	_ HTTPRequestParser = (*jsonParser)(nil)
)

// HTTPRequestParser parses HTTP requests to grab user registration and login data.
type HTTPRequestParser interface {
	ParseUserRegistrationData(r *http.Request) (*UserRegistrationData, error)
	ParseUserLoginData(r *http.Request) (*UserLoginData, error)
}

// UserRegistrationData is the submitted signup form.
type UserRegistrationData struct {
	Name     string `mod:"trim" validate:"required"`
	Password string `validate:"required"`
	Email    string `mod:"trim" validate:"omitempty,email"`
	Age      string `mod:"trim" validate:"omitempty,number"`
}

// UserLoginData is the submitted login form.
type UserLoginData struct {
	Name     string `mod:"trim" validate:"required"`
	Password string `validate:"required"`
}

type jsonParser struct {
	config *HTTPConfig
}

func (p *jsonParser) ParseUserRegistrationData(r *http.Request) (*UserRegistrationData, error) {
	var m map[string]string
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		return nil, err
	}

	return &UserRegistrationData{
		Name:     m[p.config.FieldName],
		Password: m[p.config.FieldPassword],
		Email:    m[p.config.FieldEmail],
		Age:      m[p.config.FieldAge],
	}, nil
}

func (p *jsonParser) ParseUserLoginData(r *http.Request) (*UserLoginData, error) {
	var m map[string]string
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		return nil, err
	}

	return &UserLoginData{
		Name:     m[p.config.FieldName],
		Password: m[p.config.FieldPassword],
	}, nil
}

type formParser struct {
	config *HTTPConfig
}

func (p *formParser) ParseUserRegistrationData(r *http.Request) (*UserRegistrationData, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	return &UserRegistrationData{
		Name:     r.PostFormValue(p.config.FieldName),
		Password: r.PostFormValue(p.config.FieldPassword),
		Email:    r.PostFormValue(p.config.FieldEmail),
		Age:      r.PostFormValue(p.config.FieldAge),
	}, nil
}

func (p *formParser) ParseUserLoginData(r *http.Request) (*UserLoginData, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	return &UserLoginData{
		Name:     r.PostFormValue(p.config.FieldName),
		Password: r.PostFormValue(p.config.FieldPassword),
	}, nil
}
