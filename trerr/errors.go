package trerr

import (
	"errors"
	"fmt"
)

// Kind names one of the fatal error categories a TRON operation can
// fail with. All errors are fatal to the call that produced them; there
// is no partial/recoverable state.
type Kind string

const (
	Magic Kind = "magic" // bad or missing 4-byte marker
	Short Kind = "short" // buffer ends before a required field
	Len   Kind = "len"   // malformed length field
	Tag   Kind = "tag"   // unknown or unreadable tag
	Type  Kind = "type"  // container-type/path-type mismatch, non-container when required, non-txt key
	Off   Kind = "off"   // offset outside buffer or zero where non-zero required
	Range Kind = "range" // integer out of i64 or out of host safe-integer range
	Num   Kind = "num"   // non-finite f64
	Path  Kind = "path"  // path segment of wrong kind for the container at that level
	Depth Kind = "depth" // HAMT depth exceeded without a leaf (corruption, should be unreachable)
	Proxy Kind = "proxy" // operation expected a view-backed object
	Extra Kind = "extra" // bytes remain after a scalar document's sole value
)

// Error is the concrete error type returned by every TRON operation.
// It wraps an optional underlying cause so errors.Is/As chains work
// across package boundaries.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, trerr.ErrShort) succeed against any *Error of
// the same Kind, not just the package sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error of the given kind with a formatted message.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around an existing cause.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// sentinels for errors.Is(err, trerr.ErrXxx) against a bare kind, with
// no message, mirroring go-tony/format's ErrBadFormat convention.
var (
	ErrMagic = &Error{Kind: Magic}
	ErrShort = &Error{Kind: Short}
	ErrLen   = &Error{Kind: Len}
	ErrTag   = &Error{Kind: Tag}
	ErrType  = &Error{Kind: Type}
	ErrOff   = &Error{Kind: Off}
	ErrRange = &Error{Kind: Range}
	ErrNum   = &Error{Kind: Num}
	ErrPath  = &Error{Kind: Path}
	ErrDepth = &Error{Kind: Depth}
	ErrProxy = &Error{Kind: Proxy}
	ErrExtra = &Error{Kind: Extra}
)

// Of reports the Kind of err, if err is (or wraps) a *trerr.Error.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
