package errors

import "net/http"

var ErrAdminRequired = &Exception{
	Kind:       KindAuthorization,
	Message:    "you do not have permission to perform this action",
	StatusCode: http.StatusForbidden,
}
