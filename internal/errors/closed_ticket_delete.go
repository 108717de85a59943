package errors

import "net/http"

var ErrTicketClosedDelete = &Exception{
	Message:    "cannot delete a closed ticket",
	StatusCode: http.StatusBadRequest,
}
