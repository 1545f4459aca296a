package client

import (
	"fmt"
	"net/http"
)

// NetworkError is returned when the server could not be reached or the
// response could not be read.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a response with a 4xx or 5xx status.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error: %s", http.StatusText(e.StatusCode))
}

// NotFound reports whether the server answered 404.
func (e *ServerError) NotFound() bool { return e.StatusCode == http.StatusNotFound }
