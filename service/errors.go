package service

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	KindFieldRequired ErrorKind = iota
	KindBadRequest
	KindNotFound
	KindUnauthorized
	KindDataAlreadyExists
	KindUploadFailed
)

// APIError is an error meant to be shown to the client. Anything else that
// escapes a service is an internal error.
type APIError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// Permanent reports whether retrying the failed operation cannot change the
// outcome. Only upload failures are transient.
func (e *APIError) Permanent() bool {
	return e.Kind != KindUploadFailed
}

func (e *APIError) StatusCode() int {
	switch e.Kind {
	case KindFieldRequired, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindDataAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func FieldRequired(field string) *APIError {
	return &APIError{Kind: KindFieldRequired, Message: field + " is required"}
}

func BadRequest(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

func NotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: message}
}

func DataAlreadyExists(message string) *APIError {
	return &APIError{Kind: KindDataAlreadyExists, Message: message}
}

func UploadFailed(cause error) *APIError {
	return &APIError{Kind: KindUploadFailed, Message: MsgUploadFailed, cause: cause}
}

// AsAPIError extracts the APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}
