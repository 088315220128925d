package failure

type Severity int

// pipeline control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is returned by every pipeline stage.
// Only the scheduler inspects Severity to decide whether to continue.
type ClassifiedError interface {
	error
	Severity() Severity
}

// IsFatal reports whether err carries fatal severity.
// A nil error is never fatal.
func IsFatal(err ClassifiedError) bool {
	return err != nil && err.Severity() == SeverityFatal
}
