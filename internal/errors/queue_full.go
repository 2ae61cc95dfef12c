package errors

import "net/http"

var ErrQueueFull = &Exception{
	Kind:       KindNotification,
	Message:    "notification queue is full",
	StatusCode: http.StatusServiceUnavailable,
}
