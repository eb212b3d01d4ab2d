// Package codec implements the canonical binary wire encoding for
// casinochain transactions, instructions, state keys/values and events.
//
// Decoding is total: malformed input always yields a typed *DecodeError,
// never a panic. This is consensus-critical — two replicas that disagree
// about what a byte string means have forked.
package codec

import "fmt"

// ErrorKind enumerates the ways a decode can fail.
type ErrorKind uint8

const (
	InvalidTag ErrorKind = iota
	BoundExceeded
	Truncated
	TrailingBytes
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidTag:
		return "InvalidTag"
	case BoundExceeded:
		return "BoundExceeded"
	case Truncated:
		return "Truncated"
	case TrailingBytes:
		return "TrailingBytes"
	default:
		return "UnknownErrorKind"
	}
}

// DecodeError is returned by every Read/Decode function on malformed input.
type DecodeError struct {
	Kind    ErrorKind
	Context string
}

func (e *DecodeError) Error() string {
	if e.Context == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

func errTruncated(ctx string) error       { return &DecodeError{Kind: Truncated, Context: ctx} }
func errInvalidTag(ctx string) error      { return &DecodeError{Kind: InvalidTag, Context: ctx} }
func errBoundExceeded(ctx string) error   { return &DecodeError{Kind: BoundExceeded, Context: ctx} }
func errTrailingBytes(ctx string) error   { return &DecodeError{Kind: TrailingBytes, Context: ctx} }
