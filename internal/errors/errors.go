// Package errors defines the coded error taxonomy shared by the tool handlers.
//
// Handlers return these errors unchanged; the tool dispatcher is the only place
// that turns them into caller-visible failure results.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a class of error for programmatic handling.
type Code string

const (
	// CodePathEscape marks a resolved path that leaves the project root.
	CodePathEscape Code = "path_escape"
	// CodeFilesystem marks an entry that is absent, unreadable or unwritable.
	CodeFilesystem Code = "filesystem"
	// CodeProcessLaunch marks a command that could not be started or waited for.
	CodeProcessLaunch Code = "process_launch"
	// CodeUnknownTool marks a call to a tool name missing from the catalog.
	CodeUnknownTool Code = "unknown_tool"
	// CodeArgument marks a missing or malformed tool argument.
	CodeArgument Code = "argument"
)

// Error is a tool failure tagged with a Code. Text is the caller-facing
// description; Cause, when set, is appended after it.
type Error struct {
	Code  Code
	Text  string
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Text != "" && e.Cause != nil:
		return e.Text + ": " + e.Cause.Error()
	case e.Text != "":
		return e.Text
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func codedf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Text: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first coded error in err's chain, or "" when
// the chain carries none.
func CodeOf(err error) Code {
	var target *Error
	if !stderrors.As(err, &target) {
		return ""
	}
	return target.Code
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// PathEscape reports a path that resolves outside the project root.
func PathEscape(path string) *Error {
	return codedf(CodePathEscape, "path escapes project root: %s", path)
}

// Filesystem wraps a file store failure.
func Filesystem(text string, cause error) *Error {
	return &Error{Code: CodeFilesystem, Text: text, Cause: cause}
}

// ProcessLaunch wraps a process launcher failure.
func ProcessLaunch(text string, cause error) *Error {
	return &Error{Code: CodeProcessLaunch, Text: text, Cause: cause}
}

// UnknownTool reports a tool name that is not in the catalog.
func UnknownTool(name string) *Error {
	return codedf(CodeUnknownTool, "Unknown tool: %s", name)
}

// Argument reports a missing or malformed argument.
func Argument(format string, args ...any) *Error {
	return codedf(CodeArgument, format, args...)
}
