package validators

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
)

// Credentials is the signup form payload.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Name     string `validate:"required"`
}

// LoginCredentials is the login form payload. Email format and password
// strength are not re-checked at login: whatever was accepted at signup
// must keep working.
type LoginCredentials struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type CredentialsValidator struct {
	validate *validator.Validate
}

func NewCredentialsValidator() Validator {
	return &CredentialsValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *CredentialsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case Credentials:
		return v.mapErrors(v.validate.StructCtx(ctx, value))
	case *Credentials:
		return v.mapErrors(v.validate.StructCtx(ctx, *value))

	case LoginCredentials:
		return v.mapErrors(v.validate.StructCtx(ctx, value))
	case *LoginCredentials:
		return v.mapErrors(v.validate.StructCtx(ctx, *value))

	default:
		return ErrUnsupportedType
	}
}

// mapErrors collapses field errors into the user-facing sentinels. Missing
// fields win over format and length complaints, matching how the form
// reports problems.
func (v *CredentialsValidator) mapErrors(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	for _, fe := range fieldErrors {
		if fe.Tag() == "required" {
			return ErrAllFieldsRequired
		}
	}
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "email":
			return ErrInvalidEmail
		case "min":
			return ErrPasswordTooShort
		}
	}

	return err
}
