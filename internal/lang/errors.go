package lang

import (
	"fmt"

	"github.com/rohmanhakim/talk-parser/pkg/failure"
)

type LangErrorCause string

const (
	ErrCauseInvalidTable LangErrorCause = "invalid namespace table"
	ErrCauseMissingEntry LangErrorCause = "missing fallback entry"
)

type LangError struct {
	Message   string
	Retryable bool
	Cause     LangErrorCause
}

func (e *LangError) Error() string {
	return fmt.Sprintf("lang error: %s: %s", e.Cause, e.Message)
}

func (e *LangError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
