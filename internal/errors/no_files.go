package errors

import "net/http"

var ErrNoFiles = &Exception{
	Kind:       KindValidation,
	Message:    "no files selected",
	StatusCode: http.StatusBadRequest,
}
