package failure

type Severity int

// analyzer control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// ClassifiedError is returned by every pipeline stage.
// Only the analyzer decides whether a severity aborts a run.
type ClassifiedError interface {
	error
	Severity() Severity
}
