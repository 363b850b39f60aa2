// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package mcpclient

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrToolNotAvailable              = errors.New("tool client not available")
	ErrToolUnsupported               = errors.New("tool not supported by client")
	ErrToolInvocationFailed          = errors.New("tool invocation failed")
	ErrMalformedToolResponse         = errors.New("malformed tool response")
	ErrEmptyToolResponse             = errors.New("empty tool response")
	ErrMissingTextField              = errors.New("tool response has no text field")
	ErrStructuredPayloadDecodeFailed = errors.New("structured tool payload could not be decoded")
)

var errorKinds = []error{
	ErrToolNotAvailable,
	ErrToolUnsupported,
	ErrToolInvocationFailed,
	ErrMalformedToolResponse,
	ErrEmptyToolResponse,
	ErrMissingTextField,
	ErrStructuredPayloadDecodeFailed,
}

// ToolError carries the client and tool a failure belongs to.
type ToolError struct {
	Kind   error
	Client string
	Tool   string
	Err    error
}

func (e *ToolError) Error() string {
	target := e.Client
	if e.Tool != "" {
		target = e.Client + "/" + e.Tool
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", target, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", target, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newToolError(kind error, client, tool string, cause error) *ToolError {
	return &ToolError{Kind: kind, Client: client, Tool: tool, Err: cause}
}

// Annotate attaches client and tool names to an error produced by Unwrap or
// UnwrapInto. Errors that already carry a ToolError are returned unchanged.
func Annotate(client, tool string, err error) error {
	if err == nil {
		return nil
	}
	var te *ToolError
	if errors.As(err, &te) {
		return err
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return &ToolError{Kind: kind, Client: client, Tool: tool, Err: stripKind(err, kind)}
		}
	}
	return newToolError(ErrToolInvocationFailed, client, tool, err)
}

// KindOf returns the error kind err matches, or nil.
func KindOf(err error) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// stripKind drops a leading "<kind>: " wrapper so messages do not repeat it.
func stripKind(err, kind error) error {
	if err == kind {
		return nil
	}
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		causes := u.Unwrap()
		if len(causes) == 2 && causes[0] == kind {
			return causes[1]
		}
	}
	if errors.Unwrap(err) == kind {
		detail := strings.TrimPrefix(strings.TrimPrefix(err.Error(), kind.Error()), ": ")
		if detail == "" {
			return nil
		}
		return errors.New(detail)
	}
	return err
}
