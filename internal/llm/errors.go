package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrProviderUnavailable indicates the provider could not be reached.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the call, including retries, exceeded the task timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrProviderRejected indicates a client error (4xx other than 429) that
	// retrying cannot fix, such as a bad API key or unknown model.
	ErrProviderRejected = errors.New("llm provider rejected request")

	// ErrInvalidOutput indicates the model's reply could not be parsed into
	// the expected structure.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates every attempt failed with a retryable error.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// classifyError maps the last attempt's error onto the package sentinels.
// ctx is the call context including the task timeout.
func classifyError(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return ErrTimeout
	case isConnectionError(err):
		return ErrProviderUnavailable
	case !retryable(err):
		return fmt.Errorf("%w: %v", ErrProviderRejected, err)
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

// errorCode is the short code reported in LLMCallEvent.ErrorCode.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrProviderRejected):
		return "REJECTED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
