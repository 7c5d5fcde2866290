package geocoding

import "fmt"

// SearchFailedError is returned when the geocoding lookup answers with a non-success status.
// An empty result set is not an error.
type SearchFailedError struct {
	Status int
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("geocoding error: %d", e.Status)
}
