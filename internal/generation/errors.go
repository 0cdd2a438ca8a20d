package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedChunk indicates a successful response without a plan.calendar
	// array. Only returned when the generator runs in strict mode.
	ErrMalformedChunk = errors.New("generation response has no calendar")

	// ErrInvalidResponse indicates a 2xx response whose body is not a JSON object.
	ErrInvalidResponse = errors.New("generation response is not a JSON object")
)

// EndpointError is returned when the generation endpoint answers with a
// non-2xx status. Body holds the response text verbatim.
type EndpointError struct {
	StatusCode int
	Body       string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("generation endpoint returned status %d: %s", e.StatusCode, e.Body)
}
