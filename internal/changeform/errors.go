package changeform

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure
type Kind int

const (
	KindUnknown Kind = iota
	KindNoMatch
	KindUnsupportedShape
	KindValidation
	KindTemplate
	KindFill
)

// Fixed messages shown to callers
const (
	MsgNoMatch          = "No valid patient data or PCP change notes found."
	MsgMultiplePatients = "Multiple patients detected. Please process one patient at a time."
	MsgMissingPhysician = "Could not find new PCP name in notes."
	MsgMissingDate      = "Could not find effective date in notes."
	MsgFillFailed       = "Could not generate the PCP change form."
	MsgSaveFailed       = "Could not save the PCP change form."
)

// Error is a failure that carries a message safe to show to users. Err holds
// the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserFacing reports whether the failure was caused by the submitted text
// rather than by the server.
func (e *Error) UserFacing() bool {
	switch e.Kind {
	case KindNoMatch, KindUnsupportedShape, KindValidation:
		return true
	}
	return false
}

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindNoMatch:
		return "NO_MATCH"
	case KindUnsupportedShape:
		return "UNSUPPORTED_SHAPE"
	case KindValidation:
		return "VALIDATION"
	case KindTemplate:
		return "TEMPLATE"
	case KindFill:
		return "FILL"
	default:
		return "UNKNOWN"
	}
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// AsError extracts an *Error from err's chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Message returns the text to show a caller for err. Errors that are not
// pipeline errors get the generic fill failure message.
func Message(err error) string {
	if e, ok := AsError(err); ok {
		return e.Message
	}
	return MsgFillFailed
}
