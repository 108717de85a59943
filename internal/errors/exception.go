package errors

import (
	"errors"
	"net/http"
)

// Exception is a domain error that carries the HTTP status it surfaces as:
// not-found for missing or foreign tickets, bad-request for closed-ticket
// violations, unauthorized for credential failures.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// StatusCode unwraps the Exception behind err; anything else is an
// unexpected failure and reports as a 500.
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
