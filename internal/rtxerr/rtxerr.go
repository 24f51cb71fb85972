// Package rtxerr replaces the ad-hoc negative-errno returns used
// throughout the original firmware with a small comparable error type.
package rtxerr

import "fmt"

// Code enumerates the failure conditions named in spec.md's DESIGN NOTES
// error taxonomy. It intentionally mirrors the original -EBUSY/-EPERM/...
// vocabulary rather than inventing a new one.
type Code int

const (
	EBUSY Code = iota + 1
	EPERM
	EINVAL
	ENODEV
	ENOMEM
	EAGAIN
	E2BIG
	EPROTO
)

func (c Code) String() string {
	switch c {
	case EBUSY:
		return "EBUSY"
	case EPERM:
		return "EPERM"
	case EINVAL:
		return "EINVAL"
	case ENODEV:
		return "ENODEV"
	case ENOMEM:
		return "ENOMEM"
	case EAGAIN:
		return "EAGAIN"
	case E2BIG:
		return "E2BIG"
	case EPROTO:
		return "EPROTO"
	default:
		return "EUNKNOWN"
	}
}

// Error wraps a Code with the operation that produced it.
type Error struct {
	Op   string
	Code Code
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

// Is lets errors.Is(err, rtxerr.New("", rtxerr.EBUSY)) match any *Error
// with the same Code regardless of Op, so callers can test for a
// condition without caring which call site produced it.
func (e *Error) Is(target error) bool {
	o, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == o.Code
}

// New builds an *Error for op failing with code.
func New(op string, code Code) error {
	return &Error{Op: op, Code: code}
}

// Sentinel returns a bare *Error carrying only code, for use with
// errors.Is as the target argument, e.g. errors.Is(err, rtxerr.Sentinel(rtxerr.EBUSY)).
func Sentinel(code Code) error {
	return &Error{Code: code}
}
