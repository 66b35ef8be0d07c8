package service

import "fmt"

// APIError carries an OAuth-style error code plus the HTTP status the
// handler layer should respond with.
type APIError struct {
	Code        string
	Description string
	Status      int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newAPIError(code, desc string, status int) *APIError {
	return &APIError{Code: code, Description: desc, Status: status}
}
