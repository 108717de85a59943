package errors

import "net/http"

var ErrTicketClosed = &Exception{
	Message:    "cannot modify a closed ticket",
	StatusCode: http.StatusBadRequest,
}
