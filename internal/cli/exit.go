// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cli

import "fmt"

// Process exit codes.
const (
	exitFailure    = 1
	exitInvalid    = 2 // the statement did not pass validation
	exitNotAllowed = 3 // the statement was valid but not executed
)

// ExitError is an error that carries a specific process exit code.
// RunE returns it to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
