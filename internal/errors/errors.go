package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

type ValidationKind int

const (
	InvalidDomain ValidationKind = iota + 1
	PasswordMismatch
)

func (k ValidationKind) String() string {
	switch k {
	case InvalidDomain:
		return "InvalidDomain"
	case PasswordMismatch:
		return "PasswordMismatch"
	default:
		return fmt.Sprintf("ValidationKind(%d)", int(k))
	}
}

// ValidationError is a client-side rejection of a registration draft.
// It never reaches the backend.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches on Kind so that errors carrying a configured message still
// compare equal to the package sentinels.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidDomain    = &ValidationError{Kind: InvalidDomain, Message: "Only @nbsc.edu.ph emails are allowed to register."}
	ErrPasswordMismatch = &ValidationError{Kind: PasswordMismatch, Message: "Passwords do not match."}
)

// BackendError is an opaque failure reported by the auth/data service.
// Message is shown to the user verbatim.
type BackendError struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *BackendError) Error() string {
	return e.Message
}

// StepError prefixes a failure with the registration step it happened in,
// e.g. "Account creation failed: User already registered".
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return e.Step + ": " + UserMessage(e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ErrNavigationNoop is returned when a navigation is requested for a view
// that has already gone away. It is never shown to the user.
var ErrNavigationNoop = goerrors.New("navigation skipped: view no longer active")

// ErrBackendUnavailable wraps transport failures talking to the backend.
var ErrBackendUnavailable = goerrors.New("backend unavailable")

// UserMessage returns the text to surface for err.
func UserMessage(err error) string {
	var step *StepError
	if goerrors.As(err, &step) {
		return step.Error()
	}
	var ve *ValidationError
	if goerrors.As(err, &ve) {
		return ve.Message
	}
	var be *BackendError
	if goerrors.As(err, &be) {
		return be.Message
	}
	var se *ErrorWithStatusCode
	if goerrors.As(err, &se) {
		return se.Message
	}
	if goerrors.Is(err, ErrBackendUnavailable) {
		return "Internal error: backend unavailable."
	}
	return err.Error()
}

// StatusCode maps err to the HTTP status used by the JSON API.
func StatusCode(err error) int {
	var se *ErrorWithStatusCode
	if goerrors.As(err, &se) {
		return se.StatusCode
	}
	var ve *ValidationError
	if goerrors.As(err, &ve) {
		return http.StatusUnprocessableEntity
	}
	var be *BackendError
	if goerrors.As(err, &be) {
		if be.StatusCode >= 400 && be.StatusCode < 500 {
			return be.StatusCode
		}
		return http.StatusBadGateway
	}
	if goerrors.Is(err, ErrBackendUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
