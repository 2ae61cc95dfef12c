package errors

import "net/http"

var ErrNotTaskOwner = &Exception{
	Kind:       KindAuthorization,
	Message:    "you do not have permission to access this task",
	StatusCode: http.StatusForbidden,
}
