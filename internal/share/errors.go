package share

import "fmt"

// CreateFailedError reports that a share payload could not be written.
type CreateFailedError struct {
	Cause error
}

func (e *CreateFailedError) Error() string {
	return fmt.Sprintf("share create failed: %v", e.Cause)
}

func (e *CreateFailedError) Unwrap() error {
	return e.Cause
}
