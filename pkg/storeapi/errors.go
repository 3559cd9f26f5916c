package storeapi

import "fmt"

// APIError is a non-2xx answer from the store API. Message carries the
// server's error text verbatim; surfaces show it to the user unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("storeapi: remote error %d: %s", e.StatusCode, e.Message)
}

// ServerMessage returns the server-provided text. Component packages
// duck-type on this method to build toasts without importing storeapi.
func (e *APIError) ServerMessage() string {
	return e.Message
}
