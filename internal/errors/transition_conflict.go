package errors

import "net/http"

var ErrTransitionConflict = &Exception{
	Message:    "ticket was modified concurrently",
	StatusCode: http.StatusConflict,
}
