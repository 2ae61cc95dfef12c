package errors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindInvalidState
	KindNotification
)

type Exception struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// Is lets a bare kind sentinel (one without a message) match every exception
// of that kind, so callers can write errors.Is(err, ErrValidation).
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation    = &Exception{Kind: KindValidation, StatusCode: http.StatusBadRequest}
	ErrAuthorization = &Exception{Kind: KindAuthorization, StatusCode: http.StatusForbidden}
	ErrNotFound      = &Exception{Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrInvalidState  = &Exception{Kind: KindInvalidState, StatusCode: http.StatusConflict}
	ErrNotification  = &Exception{Kind: KindNotification, StatusCode: http.StatusInternalServerError}
)

func Validation(msg string) error {
	return &Exception{Kind: KindValidation, Message: msg, StatusCode: http.StatusBadRequest}
}

func Authorization(msg string) error {
	return &Exception{Kind: KindAuthorization, Message: msg, StatusCode: http.StatusForbidden}
}

func NotFound(msg string) error {
	return &Exception{Kind: KindNotFound, Message: msg, StatusCode: http.StatusNotFound}
}

func InvalidState(msg string) error {
	return &Exception{Kind: KindInvalidState, Message: msg, StatusCode: http.StatusConflict}
}

func Notification(msg string) error {
	return &Exception{Kind: KindNotification, Message: msg, StatusCode: http.StatusInternalServerError}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing text for err. Anything that is not an
// Exception is reported generically so storage errors never leak.
func Message(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "internal error"
}
