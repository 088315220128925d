package thread

import (
	"fmt"

	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
)

type ThreadErrorCause string

const (
	ErrCauseDepthUnderflow  ThreadErrorCause = "depth underflow"
	ErrCauseInconsistentRun ThreadErrorCause = "inconsistent list run"
)

// ThreadError reports a broken internal invariant. Irregular markup never
// produces one; it degrades to sparse or unmerged output instead.
type ThreadError struct {
	Message   string
	Retryable bool
	Cause     ThreadErrorCause
}

func (e *ThreadError) Error() string {
	return fmt.Sprintf("thread error: %s: %s", e.Cause, e.Message)
}

func (e *ThreadError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapThreadErrorToMetadataCause maps thread-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapThreadErrorToMetadataCause(err *ThreadError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDepthUnderflow, ErrCauseInconsistentRun:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
