package lexicon

import (
	"fmt"

	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

type LexiconErrorCause string

const (
	ErrCauseReadFailure  LexiconErrorCause = "failed to read lexicon file"
	ErrCauseParseFailure LexiconErrorCause = "failed to parse lexicon file"
	ErrCauseEmpty        LexiconErrorCause = "lexicon has no version or no entries"
)

type LexiconError struct {
	Message   string
	Retryable bool
	Cause     LexiconErrorCause
	Path      string
}

func (e *LexiconError) Error() string {
	return fmt.Sprintf("lexicon error: %s: %s", e.Cause, e.Message)
}

func (e *LexiconError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
