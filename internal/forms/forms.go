// Package forms validates the login, registration and change-password forms
// before anything is sent to the server.
package forms

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/justyntemme/libcat/pkg/models"
)

var (
	ErrEmptyFields       = errors.New("please fill in all fields")
	ErrUsernameTooShort  = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong   = errors.New("username must be at most 50 characters")
	ErrInvalidEmail      = errors.New("enter a valid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrPasswordUnchanged = errors.New("new password must differ from the current password")
	errInvalid           = errors.New("form is invalid")
)

var validate = validator.New()

// Login is the login form
type Login struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Validate checks the form
func (f Login) Validate() error {
	return check(f)
}

// Request converts the form to the login body
func (f Login) Request() models.LoginRequest {
	return models.LoginRequest{Username: f.Username, Password: f.Password}
}

// Register is the registration form
type Register struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

// Validate checks the form
func (f Register) Validate() error {
	return check(f)
}

// Request converts the form to the registration body. The confirmation is not sent.
func (f Register) Request() models.RegisterRequest {
	return models.RegisterRequest{Username: f.Username, Email: f.Email, Password: f.Password}
}

// ChangePassword is the profile change-password form
type ChangePassword struct {
	Current string `validate:"required"`
	New     string `validate:"required,min=6,nefield=Current"`
	Confirm string `validate:"required,eqfield=New"`
}

// Validate checks the form
func (f ChangePassword) Validate() error {
	return check(f)
}

// rank orders failures so the form reports the same one regardless of field order
var rank = map[error]int{
	ErrEmptyFields:       0,
	ErrUsernameTooShort:  1,
	ErrUsernameTooLong:   1,
	ErrInvalidEmail:      2,
	ErrPasswordTooShort:  3,
	ErrPasswordMismatch:  4,
	ErrPasswordUnchanged: 5,
	errInvalid:           6,
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var first error
	for _, fe := range fieldErrs {
		e := classify(fe)
		if first == nil || rank[e] < rank[first] {
			first = e
		}
	}
	return first
}

func classify(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return ErrEmptyFields
	case "email":
		return ErrInvalidEmail
	case "eqfield":
		return ErrPasswordMismatch
	case "nefield":
		return ErrPasswordUnchanged
	case "min":
		if fe.Field() == "Username" {
			return ErrUsernameTooShort
		}
		return ErrPasswordTooShort
	case "max":
		return ErrUsernameTooLong
	default:
		return errInvalid
	}
}
