package pipeline

import (
	"errors"
	"fmt"
)

var errNoTranscriber = errors.New("no transcriber configured")

// StageError reports which stage failed and for which input, so the caller
// can log and retry the whole submission. Any stage failure aborts the
// entire submission; no partial calendar is ever returned.
type StageError struct {
	Stage string
	Input string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed for input %q: %v", e.Stage, truncate(e.Input, 120), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
