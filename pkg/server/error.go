package server

import (
	"errors"
	"fmt"
)

type ErrorCode uint

const (
	ErrInternalServerError ErrorCode = iota
	ErrNotFound
	ErrBadParamInput
	ErrConflict
)

var ErrPathNotFound = errors.New("path not found")

// Error wraps the original error with a code the REST layer maps to an http status.
type Error struct {
	orig error
	msg  string
	code ErrorCode
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() ErrorCode {
	return e.code
}

// Message the user facing part of the error.
func (e *Error) Message() string {
	return e.msg
}

func WrapErrorf(orig error, code ErrorCode, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func NewErrorf(code ErrorCode, format string, a ...interface{}) error {
	return WrapErrorf(nil, code, format, a...)
}
