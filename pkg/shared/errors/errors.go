package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
)

// Exit codes returned by the CLI for each error class.
const (
	ExitCodeOK      = 0
	ExitCodeGeneral = 1
	ExitCodeInput   = 2
	ExitCodeParse   = 3
)

// InputError reports a user-fixable misconfiguration: a missing key, a file that
// does not exist or a malformed value.
type InputError struct {
	Key     string // configuration key involved, if any
	Path    string // resolved absolute path involved, if any
	Message string
}

// Error implements the error interface for InputError.
func (e *InputError) Error() string {
	return e.Message
}

// NewInputError creates an InputError bound to a configuration key and/or a path.
func NewInputError(key, path, format string, args ...interface{}) error {
	return &InputError{
		Key:     key,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// StateError reports an environment or content problem discovered mid-operation.
// It always carries the underlying cause.
type StateError struct {
	Message string
	Cause   error
}

// Error implements the error interface for StateError.
func (e *StateError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StateError) Unwrap() error {
	return e.Cause
}

// NewStateError creates a StateError wrapping cause.
func NewStateError(cause error, format string, args ...interface{}) error {
	return &StateError{
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// ParseError reports malformed report content.
type ParseError struct {
	File    string
	Line    int
	Message string
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s in %s at line %d", e.Message, e.File, e.Line)
}

// NewParseError creates a ParseError located at file:line.
func NewParseError(file string, line int, format string, args ...interface{}) error {
	return &ParseError{
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsInputError reports whether err or any error it wraps is an InputError.
func IsInputError(err error) bool {
	var target *InputError
	return stderrors.As(err, &target)
}

// IsStateError reports whether err or any error it wraps is a StateError.
func IsStateError(err error) bool {
	var target *StateError
	return stderrors.As(err, &target)
}

// IsParseError reports whether err or any error it wraps is a ParseError.
func IsParseError(err error) bool {
	var target *ParseError
	return stderrors.As(err, &target)
}

// ExitCodeFor maps an error to the CLI exit code of its class.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitCodeOK
	case IsInputError(err):
		return ExitCodeInput
	case IsParseError(err):
		return ExitCodeParse
	default:
		return ExitCodeGeneral
	}
}

// CommandError represents an error that occurred during command execution, storing relevant results.
type CommandError struct {
	ExitCode    int
	CommonError string
	Result      shared.GenericLaunchesResult
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance, encapsulating args, result, and the error message.
// The exit code is derived from the error class.
func NewCommandError(args interface{}, result interface{}, err error) *CommandError {
	return &CommandError{
		ExitCode:    ExitCodeFor(err),
		CommonError: err.Error(),
		Result: shared.GenericLaunchesResult{
			Launches: []shared.GenericResult{
				{
					Args:    args,
					Result:  result,
					Status:  "FAILED",
					Message: err.Error(),
				},
			},
		},
	}
}
