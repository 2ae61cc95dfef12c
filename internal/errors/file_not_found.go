package errors

import "net/http"

var ErrFileNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "file not found",
	StatusCode: http.StatusNotFound,
}
