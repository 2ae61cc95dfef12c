package errors

import "net/http"

var ErrUserNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "user not found",
	StatusCode: http.StatusNotFound,
}
