package detection

import "fmt"

// NetworkError reports that the boundary could not be reached: no HTTP
// response was received. Context cancellation and timeouts land here too.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("detection boundary unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError reports that the boundary answered but did not produce a usable
// result. StatusCode and Body are the raw response for diagnostics.
//
// Err is set when a 2xx response carried a body that could not be decoded.
type ServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("detection service returned malformed response (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("detection service returned status %d: %s", e.StatusCode, e.Body)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
