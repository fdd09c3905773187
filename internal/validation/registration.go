// Package validation holds the client-side checks a registration draft must
// pass before the user is shown the review step.
package validation

import (
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
)

// Registration validates drafts against a fixed institutional email suffix.
type Registration struct {
	suffix   string
	validate *validator.Validate
}

func NewRegistration(emailSuffix string) *Registration {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on a programming error (duplicate tag).
	if err := v.RegisterValidation("emailsuffix", func(fl validator.FieldLevel) bool {
		return strings.HasSuffix(fl.Field().String(), emailSuffix)
	}); err != nil {
		panic(err)
	}
	return &Registration{suffix: emailSuffix, validate: v}
}

func (r *Registration) Suffix() string {
	return r.suffix
}

// Validate checks, in order, the email suffix and then password confirmation.
// The first failure wins. No length or complexity rules apply.
func (r *Registration) Validate(draft domain.RegistrationDraft) error {
	err := r.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !goerrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	// validator reports fields in declaration order: Email precedes ConfirmPassword.
	switch fieldErrs[0].StructField() {
	case "Email":
		return &errors.ValidationError{
			Kind:    errors.InvalidDomain,
			Message: fmt.Sprintf("Only %s emails are allowed to register.", r.suffix),
		}
	case "ConfirmPassword":
		return errors.ErrPasswordMismatch
	default:
		return err
	}
}
