package errors

import "net/http"

var ErrAuthenticationRequired = &Exception{
	Message:    "authentication required",
	StatusCode: http.StatusUnauthorized,
}
