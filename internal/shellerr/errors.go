package shellerr

import (
	"errors"
	"fmt"
)

// Command-level failures. None of these terminate an interactive session.
var (
	ErrSyntax               = errors.New("syntax error")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrUnknownModel         = errors.New("unknown model")
	ErrUnknownField         = errors.New("unknown field")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUndefinedVariable    = errors.New("undefined variable")
	ErrNotAList             = errors.New("not a list")
	ErrRangeSyntax          = errors.New("range invalid")
	ErrRangeFormat          = errors.New("range format error")
	ErrCommunication        = errors.New("communication error")
	ErrResultParse          = errors.New("unable to parse result")
	ErrNotConnected         = errors.New("not connected")
)

// Control signals rather than failures.
var (
	// ErrConnectFailed marks a failed connect. Scripts stop on it.
	ErrConnectFailed = errors.New("connect failed")
	// ErrExit asks the command loop to stop cleanly.
	ErrExit = errors.New("exit requested")
)

// CommunicationError is returned when the control service answers with a
// status outside 200-299, or when the request never got an answer at all.
type CommunicationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *CommunicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("communications error with mPCC: %v", e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("communications error with mPCC, code: %d", e.StatusCode)
	}
	return fmt.Sprintf("communications error with mPCC, code: %d\n%s", e.StatusCode, e.Body)
}

// Unwrap exposes both the transport cause, if any, and the sentinel.
func (e *CommunicationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCommunication, e.Err}
	}
	return []error{ErrCommunication}
}
