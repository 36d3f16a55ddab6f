// Package diag carries the two severities a conversion can report: fatal
// errors that abort the run and warnings that degrade a feature and continue.
package diag

import (
	"errors"
	"fmt"
)

// Severity of a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "warning"
}

// Kind classifies what went wrong.
type Kind int

const (
	MissingField Kind = iota
	UnresolvedReference
	ParentCycle
	InvalidValue
	Unsupported
	UnknownField
)

func (k Kind) String() string {
	switch k {
	case MissingField:
		return "missing-field"
	case UnresolvedReference:
		return "unresolved-reference"
	case ParentCycle:
		return "parent-cycle"
	case InvalidValue:
		return "invalid-value"
	case Unsupported:
		return "unsupported"
	case UnknownField:
		return "unknown-field"
	}
	return "unknown"
}

// Diagnostic is one reported event.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Error is a fatal diagnostic returned as an error value.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds a fatal *Error.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries a fatal diagnostic of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
