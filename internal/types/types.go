package types

import (
	"fmt"
	"time"
)

// Source is one input audio file. Index is the 0-based CLI input order and
// stays stable for the whole run; Duration comes from the probe tool.
type Source struct {
	Path     string
	Index    int
	Duration time.Duration
}

// Process exit codes. Configuration and environment errors fail fast before
// any intermediate file is materialized; each pipeline stage aborts with its
// own code.
const (
	ExitTooFewInputs  = 1
	ExitMissingOutput = 2
	ExitWorkspace     = 3
	ExitExtract       = 4
	ExitWeave         = 5
	ExitRender        = 6
	ExitFinalCleanup  = 7
	ExitRename        = 10
	ExitProbe         = 11
	ExitToolMissing   = 12
)

// ExitError ties a failure to the process exit code of the stage it came
// from.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%v (exit %d)", e.Err, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

func Exit(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}
