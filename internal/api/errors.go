package api

import "fmt"

// NetworkError is a transport failure: the request never produced a
// decodable response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError is a response that reports failure, either through a non-2xx
// status or through success=false.
type BackendError struct {
	Op         string
	StatusCode int
	Message    string
}

// Error returns the backend's own message when it sent one, so it can be
// shown to the user as is.
func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
