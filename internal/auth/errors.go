package auth

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
)

// Error is a domain error with a client facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the response status code, and the message safe to show.
func HTTPStatus(err error) (int, string) {
	var authErr *Error
	if !errors.As(err, &authErr) {
		return http.StatusInternalServerError, "Internal server error"
	}
	switch authErr.Kind {
	case KindBadRequest:
		return http.StatusBadRequest, authErr.Message
	case KindUnauthorized:
		return http.StatusUnauthorized, authErr.Message
	case KindNotFound:
		return http.StatusNotFound, authErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

var (
	ErrAdminNotFound         = errors.New("admin not found")
	ErrSessionNotFound       = errors.New("session not found")
	ErrPasswordResetNotFound = errors.New("password reset not found")
	ErrAdminExists           = errors.New("admin already exists")
)
