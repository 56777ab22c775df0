// Package diag implements the error-kind table of spec §7: values, not
// types, each carrying enough structure to be attached to an AST as a
// Diagnostic rather than unwinding the whole parse.
package diag

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lambdalang/lambda/value"
)

// Kind is one of the spec's §7 error kinds.
type Kind int

const (
	ParseExhausted Kind = iota
	SyntaxError
	UnknownFlavor
	InvalidURL
	InvalidTargetKind
	IoError
	TypeMismatch
	Oom
)

func (k Kind) String() string {
	switch k {
	case ParseExhausted:
		return "ParseExhausted"
	case SyntaxError:
		return "SyntaxError"
	case UnknownFlavor:
		return "UnknownFlavor"
	case InvalidURL:
		return "InvalidUrl"
	case InvalidTargetKind:
		return "InvalidTargetKind"
	case IoError:
		return "IoError"
	case TypeMismatch:
		return "TypeMismatch"
	case Oom:
		return "Oom"
	default:
		return "Unknown"
	}
}

// Position is a byte-offset source position (spec §4.E: every node carries
// {start_byte, end_byte}; diagnostics reuse the same coordinate system).
type Position struct {
	StartByte int
	EndByte   int
}

// Error is the structured error every fallible core operation returns.
// Kind TypeMismatch is a programmer error (spec §7 "fatal") and is
// returned rather than panicked so a release build degrades instead of
// crashing; callers that want the old panic-on-bug behavior can check
// Kind and panic themselves.
type Error struct {
	Kind     Kind
	Message  string
	Pos      Position
	Expected string // populated for SyntaxError
	Target   string // populated for IoError / InvalidUrl, the offending target
	Wrapped  error
}

func (e *Error) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s at %d: %s (expected %s)", e.Kind, e.Pos.StartByte, e.Message, e.Expected)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// AsItem wraps the diagnostic as an ERROR-tagged value.Item, for code paths
// where an error needs to flow through the tagged value model itself (spec
// §3.1's ITEM_ERROR) rather than as a Go error return.
func (e *Error) AsItem() value.Item { return value.NewError(e) }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Syntax(pos Position, msg, expected string) *Error {
	return &Error{Kind: SyntaxError, Message: msg, Pos: pos, Expected: expected}
}

func Exhausted(msg string) *Error { return &Error{Kind: ParseExhausted, Message: msg} }

// Diagnostics is the vector of recovered errors a parse attaches to its
// (possibly partial) AST, per spec §7: "parse always returns an AST
// (possibly empty) and a diagnostics vector."
type Diagnostics struct {
	TraceID uuid.UUID
	Entries []*Error
}

func NewDiagnostics(traceID uuid.UUID) *Diagnostics {
	return &Diagnostics{TraceID: traceID}
}

func (d *Diagnostics) Add(e *Error) { d.Entries = append(d.Entries, e) }

func (d *Diagnostics) HasErrors() bool { return len(d.Entries) > 0 }

// HasKind returns how many entries have the given kind, used by tests that
// assert P9 (exactly one ParseExhausted diagnostic, no panic).
func (d *Diagnostics) HasKind(k Kind) int {
	n := 0
	for _, e := range d.Entries {
		if e.Kind == k {
			n++
		}
	}
	return n
}
