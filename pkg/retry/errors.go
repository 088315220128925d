package retry

import (
	"fmt"

	"github.com/rohmanhakim/talk-parser/pkg/failure"
)

type RetryErrorCause string

const (
	ErrZeroAttempt       RetryErrorCause = "zero attempt"
	ErrExhaustedAttempts RetryErrorCause = "exhausted attempt"
	ErrCancelled         RetryErrorCause = "cancelled"
)

// RetryError wraps the outcome of a retry loop that never succeeded.
// Attempts counts the calls made before giving up.
type RetryError struct {
	Message   string
	Retryable bool
	Cause     RetryErrorCause
	Attempts  int
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry error: %s, %s", e.Cause, e.Message)
}

func (e *RetryError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *RetryError) IsRetryable() bool {
	return e.Retryable
}

// Is matches any *RetryError regardless of cause.
func (e *RetryError) Is(target error) bool {
	_, ok := target.(*RetryError)
	return ok
}
