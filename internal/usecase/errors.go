package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorValidation ErrorCode = "VALIDATION_ERROR"
	ErrorGeneration ErrorCode = "GENERATION_ERROR"
	ErrorNotFound   ErrorCode = "NOT_FOUND"
	ErrorInternal   ErrorCode = "INTERNAL_ERROR"
)

// Error is returned by every use case operation. Fields is set only for
// validation failures and maps a JSON path to a message.
type Error struct {
	Code   ErrorCode
	Reason string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

func newValidationError(reason string, fields map[string]string, err error) *Error {
	return &Error{Code: ErrorValidation, Reason: reason, Fields: fields, Err: err}
}

// CodeOf reports the code carried by err, or ErrorInternal when err is not a
// use case error.
func CodeOf(err error) ErrorCode {
	var ucErr *Error
	if errors.As(err, &ucErr) {
		return ucErr.Code
	}
	return ErrorInternal
}
