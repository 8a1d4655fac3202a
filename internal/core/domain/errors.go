package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every consumer of the remote API.
var (
	ErrNetworkFailure    = errors.New("network failure")
	ErrAuthExpired       = errors.New("session expired")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrServerRejected    = errors.New("server rejected request")
	ErrValidationFailure = errors.New("validation failed")
)

// GenericServerMessage is shown when the server gives no detail.
const GenericServerMessage = "the server could not process the request"

// ServerError is a non-2xx answer from the remote API.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return GenericServerMessage
	}
	return e.Detail
}

// Is makes errors.Is(err, ErrServerRejected) match any ServerError.
func (e *ServerError) Is(target error) bool {
	return target == ErrServerRejected
}

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidationFailure) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailure
}

// NewValidationError builds an ad-hoc validation error.
func NewValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Report validation failures, checked in this order.
var (
	ErrMissingDateRange   = &ValidationError{Code: "missing_date_range", Message: "start and end dates are required"}
	ErrNoCategorySelected = &ValidationError{Code: "no_category_selected", Message: "select at least one news category"}
	ErrInvalidDate        = &ValidationError{Code: "invalid_date", Message: "dates must use the YYYY-MM-DD format"}
	ErrInvertedDateRange  = &ValidationError{Code: "inverted_date_range", Message: "end date must not be before the start date"}
	ErrInvalidEmail       = &ValidationError{Code: "invalid_email", Message: "delivery email is not a valid address"}
	ErrMissingVerifyToken = &ValidationError{Code: "missing_token", Message: "verification token not provided"}
)
