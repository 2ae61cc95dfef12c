package errors

import "net/http"

var ErrInvalidCredentials = &Exception{
	Kind:       KindValidation,
	Message:    "invalid email or password",
	StatusCode: http.StatusUnauthorized,
}
