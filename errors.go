package png

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies why a decode failed. Every failure in this package
// is terminal (§7) and falls into exactly one of these buckets.
type ErrorKind int

const (
	_ ErrorKind = iota
	TruncatedStream
	CorruptData
	UnsupportedFormat
	ImageTooLarge
	MissingEnd
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedStream:
		return "truncated stream"
	case CorruptData:
		return "corrupt data"
	case UnsupportedFormat:
		return "unsupported format"
	case ImageTooLarge:
		return "image too large"
	case MissingEnd:
		return "missing IEND"
	default:
		return "unknown error"
	}
}

// DecodeError is the concrete error type every failure path in this
// package produces. Kind lets a caller branch on failure category
// without string matching; errors.WithStack at the raise site keeps a
// stack trace attached all the way back to the top-level Decode call.
type DecodeError struct {
	Kind ErrorKind
	msg  string
}

func (e *DecodeError) Error() string { return "png: " + e.Kind.String() + ": " + e.msg }

func newError(kind ErrorKind, format string, args ...interface{}) error {
	return errors.WithStack(&DecodeError{Kind: kind, msg: fmt.Sprintf(format, args...)})
}

// KindOf reports the ErrorKind carried by err, unwrapping through any
// github.com/pkg/errors stack annotations to find it.
func KindOf(err error) (ErrorKind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a DecodeError of the given Kind.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
