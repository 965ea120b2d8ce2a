package wardenpassword

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"go.avresk.dev/warden/internal/sliceutil"
	"go.avresk.dev/warden/wardenpasswordverifier"
)

// FieldError describes a single invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is a recoverable, field-level validation failure. The
// submitted registration values are preserved so forms can be redisplayed
// with the user's input intact (the password is never echoed back).
type ValidationError struct {
	Fields []FieldError

	// Data holds the submitted registration values, when the failure
	// occurred on the signup path.
	Data *UserRegistrationData
}

func (e *ValidationError) Error() string {
	msgs := sliceutil.Map(e.Fields, func(f FieldError) string {
		return fmt.Sprintf("%s %s", f.Field, f.Message)
	})

	return "warden/password: validation failed: " + strings.Join(msgs, ", ")
}

// fieldErrorsFromValidator translates validator.ValidationErrors into the
// field/message pairs rendered back to the user.
func fieldErrorsFromValidator(errs validator.ValidationErrors) []FieldError {
	return sliceutil.Map(errs, func(fe validator.FieldError) FieldError {
		return FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldErrorMessage(fe),
		}
	})
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "number":
		return "must be a number"
	default:
		return "is invalid"
	}
}

// fieldErrorsFromPasswordVerifier translates a password strength failure
// into errors on the password field.
func fieldErrorsFromPasswordVerifier(
	err *wardenpasswordverifier.PasswordVerificationError,
) []FieldError {
	return sliceutil.Map(err.Reasons, func(r wardenpasswordverifier.Reason) FieldError {
		return FieldError{Field: "password", Message: string(r)}
	})
}
