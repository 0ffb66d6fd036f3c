package booking

import (
	"errors"
	"fmt"
)

// errors used by controllers

type ErrCode string

const (
	ErrInvalidDateRange     ErrCode = "INVALID_DATE_RANGE"
	ErrInvalidDateFormat    ErrCode = "INVALID_DATE_FORMAT"
	ErrPropertyNotApproved  ErrCode = "PROPERTY_NOT_APPROVED"
	ErrPropertyNotAvailable ErrCode = "PROPERTY_NOT_AVAILABLE"
	ErrCapacityExceeded     ErrCode = "CAPACITY_EXCEEDED"
	ErrInvalidState         ErrCode = "INVALID_STATE"
	ErrUnauthorized         ErrCode = "UNAUTHORIZED"
	ErrNotFound             ErrCode = "NOT_FOUND"
	ErrBadInput             ErrCode = "BAD_INPUT"
)

type codedError struct {
	code      ErrCode
	msg       string
	conflicts int
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.msg
}
func (e codedError) Code() ErrCode      { return e.code }
func (e codedError) Message() string    { return e.msg }
func (e codedError) ConflictCount() int { return e.conflicts }

func makeErr(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

func notAvailable(conflicts int) error {
	return codedError{
		code:      ErrPropertyNotAvailable,
		msg:       fmt.Sprintf("Conflicts with %d existing booking(s).", conflicts),
		conflicts: conflicts,
	}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Message returns the user-facing detail of a coded error, or "".
func Message(err error) string {
	var ce interface{ Message() string }
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return ""
}

// Conflicts returns the number of overlapping bookings carried by a
// PROPERTY_NOT_AVAILABLE error.
func Conflicts(err error) int {
	var ce interface{ ConflictCount() int }
	if errors.As(err, &ce) {
		return ce.ConflictCount()
	}
	return 0
}

// InvalidDateFormat is returned by request parsing before the service is reached.
func InvalidDateFormat(field, value string) error {
	return makeErr(ErrInvalidDateFormat, "%s %q: use YYYY-MM-DD", field, value)
}

// BadInput reports a malformed request detected outside the service.
func BadInput(format string, args ...any) error {
	return makeErr(ErrBadInput, format, args...)
}
