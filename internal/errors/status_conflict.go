package errors

import "net/http"

// ErrStatusConflict is returned when a conditional status update matched no
// row because another request moved the task first.
var ErrStatusConflict = &Exception{
	Kind:       KindInvalidState,
	Message:    "task status changed concurrently",
	StatusCode: http.StatusConflict,
}
