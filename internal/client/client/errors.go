package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/discera/discera-client/internal/common"
)

var (
	// ErrUnauthorized: the server rejected the credentials or the token.
	ErrUnauthorized = common.ErrorUnauthorized
	// ErrValidation: the server refused the request shape or content.
	ErrValidation = common.ErrorValidation
	// ErrUnavailable: the server could not be reached or failed internally.
	ErrUnavailable = errors.New("server unavailable")
)

// APIError is a non-2xx answer from the server. It unwraps to Kind, one of
// ErrUnauthorized, ErrValidation or ErrUnavailable.
type APIError struct {
	Kind   error
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Status, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// kindForStatus classifies a status code. Anything that is neither an auth
// nor a validation refusal counts as the server being unusable.
func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrUnavailable
	}
}
